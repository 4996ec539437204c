package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/miniteen-shop/internal/config"
)

func newUploadServiceForTest(t *testing.T) (*UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewUploadService(config.UploadConfig{
		Dir:               dir,
		MaxSize:           64 * 1024,
		AllowedTypes:      []string{"image/png", "image/jpeg"},
		AllowedExtensions: []string{".png", "jpg"},
		MaxWidth:          64,
		MaxHeight:         64,
	})
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, dir
}

func TestSaveAvatarStoresFile(t *testing.T) {
	svc, dir := newUploadServiceForTest(t)

	publicPath, err := svc.SaveAvatar("42", buildMultipartFile(t, "avatar", "me.PNG", pngBytes(t, 8, 8)))
	if err != nil {
		t.Fatalf("save avatar failed: %v", err)
	}
	if publicPath != "/uploads/avatars/user-42-1700000000000.png" {
		t.Fatalf("unexpected public path: %s", publicPath)
	}
	local := filepath.Join(dir, "avatars", "user-42-1700000000000.png")
	if _, err := os.Stat(local); err != nil {
		t.Fatalf("avatar file missing: %v", err)
	}

	if err := svc.RemovePublicFile(publicPath); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Fatalf("avatar should be removed, stat err=%v", err)
	}
}

func TestSaveAvatarRejectsInvalidFiles(t *testing.T) {
	svc, _ := newUploadServiceForTest(t)

	cases := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{"extension", "me.gif", pngBytes(t, 8, 8), ErrUploadTypeInvalid},
		{"content", "me.png", []byte(strings.Repeat("plain text ", 10)), ErrUploadTypeInvalid},
		{"dimensions", "me.png", pngBytes(t, 65, 8), ErrUploadImageInvalid},
		{"size", "me.png", bytes.Repeat([]byte{0}, 65*1024), ErrUploadTooLarge},
	}
	for _, tc := range cases {
		_, err := svc.SaveAvatar("1", buildMultipartFile(t, "avatar", tc.filename, tc.content))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: upload errors should be validation errors, got %v", tc.name, err)
		}
	}

	if _, err := svc.SaveAvatar("1", nil); !errors.Is(err, ErrUploadRequired) {
		t.Fatalf("nil file want ErrUploadRequired got %v", err)
	}
}

func TestDecodeWebPDimensionsVP8X(t *testing.T) {
	data := []byte("RIFF\x00\x00\x00\x00WEBP")
	chunk := []byte("VP8X\x0a\x00\x00\x00")
	payload := []byte{0, 0, 0, 0, 99, 0, 0, 49, 0, 0}
	data = append(data, chunk...)
	data = append(data, payload...)

	w, h, err := decodeWebPDimensions(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode webp failed: %v", err)
	}
	if w != 100 || h != 50 {
		t.Fatalf("want 100x50 got %dx%d", w, h)
	}
}

func TestDecodeWebPDimensionsSkipsOversizedChunk(t *testing.T) {
	data := []byte("RIFF\x00\x00\x00\x00WEBP")
	// 声明 4GB 的未知 chunk，实际数据远小于声明长度
	data = append(data, []byte("EXIF\xff\xff\xff\xff")...)
	data = append(data, bytes.Repeat([]byte{1}, 32)...)

	if _, _, err := decodeWebPDimensions(bytes.NewReader(data)); !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("truncated chunk want EOF, got %v", err)
	}

	// 未知 chunk 之后的 VP8X 仍能解析
	data = []byte("RIFF\x00\x00\x00\x00WEBP")
	data = append(data, []byte("ICCP\x15\x00\x00\x00")...)
	data = append(data, bytes.Repeat([]byte{7}, 22)...)
	data = append(data, []byte("VP8X\x0a\x00\x00\x00")...)
	data = append(data, 0, 0, 0, 0, 31, 0, 0, 15, 0, 0)
	w, h, err := decodeWebPDimensions(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode webp failed: %v", err)
	}
	if w != 32 || h != 16 {
		t.Fatalf("want 32x16 got %dx%d", w, h)
	}
}
