package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/miniteen-shop/internal/config"
	"github.com/miniteen-shop/internal/models"
)

type profileFixture struct {
	auth    *UserAuthService
	profile *ProfileService
	uploads *UploadService
	user    *models.User
	token   string
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	auth, _, cfg, userRepo := newUserAuthServiceForTest(t)
	cfg.Upload.Dir = t.TempDir()
	uploads := NewUploadService(cfg.Upload)
	profile := NewProfileService(cfg, userRepo, auth, uploads, nil)

	user, token, _, err := auth.Register(context.Background(), "mia@example.com", "password123", "Mia")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return &profileFixture{auth: auth, profile: profile, uploads: uploads, user: user, token: token}
}

func strPtr(v string) *string {
	return &v
}

func TestProfileUpdate(t *testing.T) {
	f := newProfileFixture(t)

	user, err := f.profile.UpdateProfile(f.user.ID, UpdateProfileInput{
		Name:     strPtr("  Mia Chen "),
		RealName: strPtr("Chen Mia"),
		Phone:    strPtr("0912345678"),
		Birthday: strPtr("2008-05-20"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.Name != "Mia Chen" || user.Phone != "0912345678" || user.Birthday != "2008-05-20" || user.RealName != "Chen Mia" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	user, err = f.profile.UpdateProfile(f.user.ID, UpdateProfileInput{Phone: strPtr(""), Birthday: strPtr("")})
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if user.Phone != "" || user.Birthday != "" || user.Name != "Mia Chen" {
		t.Fatalf("expected optional fields cleared and name kept, got %+v", user)
	}
}

func TestProfileUpdateValidation(t *testing.T) {
	f := newProfileFixture(t)
	cases := []struct {
		name  string
		input UpdateProfileInput
		want  error
	}{
		{"blank name", UpdateProfileInput{Name: strPtr("   ")}, ErrNameRequired},
		{"short phone", UpdateProfileInput{Phone: strPtr("12345")}, ErrPhoneInvalid},
		{"phone with letters", UpdateProfileInput{Phone: strPtr("09123456ab")}, ErrPhoneInvalid},
		{"bad birthday format", UpdateProfileInput{Birthday: strPtr("20/05/2008")}, ErrBirthdayInvalid},
		{"impossible birthday", UpdateProfileInput{Birthday: strPtr("2008-02-30")}, ErrBirthdayInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.profile.UpdateProfile(f.user.ID, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := f.profile.UpdateProfile("missing", UpdateProfileInput{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestProfileChangePasswordRevokesOldToken(t *testing.T) {
	f := newProfileFixture(t)

	if _, _, err := f.profile.ChangePassword(context.Background(), f.user.ID, "wrong-password", "newpassword1"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected invalid password, got %v", err)
	}
	if _, _, err := f.profile.ChangePassword(context.Background(), f.user.ID, "password123", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got %v", err)
	}

	newToken, _, err := f.profile.ChangePassword(context.Background(), f.user.ID, "password123", "newpassword1")
	if err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, err := f.auth.ResolveToken(context.Background(), f.token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected old token revoked, got %v", err)
	}
	if _, err := f.auth.ResolveToken(context.Background(), newToken); err != nil {
		t.Fatalf("new token must resolve, got %v", err)
	}
	if _, _, _, err := f.auth.Login(context.Background(), "mia@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func buildMultipartFile(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart failed: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func TestProfileUploadAvatarReplacesPreviousFile(t *testing.T) {
	f := newProfileFixture(t)
	tick := time.UnixMilli(1700000000000)
	f.uploads.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}

	first, err := f.profile.UploadAvatar(context.Background(), f.user.ID, buildMultipartFile(t, "avatar", "me.png", pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	wantPrefix := "/uploads/avatars/user-" + f.user.ID + "-"
	if !strings.HasPrefix(first.Avatar, wantPrefix) || !strings.HasSuffix(first.Avatar, ".png") {
		t.Fatalf("unexpected avatar path: %s", first.Avatar)
	}
	firstPath := first.Avatar
	firstLocal := filepath.Join(f.uploads.Dir(), "avatars", filepath.Base(firstPath))
	if _, err := os.Stat(firstLocal); err != nil {
		t.Fatalf("avatar not stored: %v", err)
	}

	second, err := f.profile.UploadAvatar(context.Background(), f.user.ID, buildMultipartFile(t, "avatar", "me2.png", pngBytes(t, 8, 8)))
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}
	if second.Avatar == firstPath {
		t.Fatalf("expected new avatar path")
	}
	if _, err := os.Stat(firstLocal); !os.IsNotExist(err) {
		t.Fatalf("previous avatar should be removed, stat err=%v", err)
	}
}

func TestProfileUploadAvatarRejectsInvalidFiles(t *testing.T) {
	f := newProfileFixture(t)
	cases := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{"text disguised as png", "me.png", []byte("definitely not an image"), ErrUploadTypeInvalid},
		{"wrong extension", "me.txt", pngBytes(t, 2, 2), ErrUploadTypeInvalid},
		{"too large", "big.png", bytes.Repeat([]byte{0}, 2*1024*1024+1), ErrUploadTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file := buildMultipartFile(t, "avatar", tc.filename, tc.content)
			if _, err := f.profile.UploadAvatar(context.Background(), f.user.ID, file); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := f.profile.UploadAvatar(context.Background(), f.user.ID, nil); !errors.Is(err, ErrUploadRequired) {
		t.Fatalf("expected upload required, got %v", err)
	}
}

func TestUploadServiceRemoveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(outside) })

	svc := NewUploadService(config.UploadConfig{Dir: dir})
	if err := svc.RemovePublicFile("/uploads/../keep.txt"); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside upload dir must not be removed: %v", err)
	}
	if err := svc.RemovePublicFile("/uploads/avatars/missing.png"); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
}

func TestDecodeWebPDimensions(t *testing.T) {
	// VP8L: signature 0x2f, width-1 和 height-1 各占 14 bit
	width, height := 300, 200
	bits := uint32(width-1) | uint32(height-1)<<14
	chunk := []byte{0x2f, byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	data := []byte("RIFF\x00\x00\x00\x00WEBPVP8L")
	data = append(data, byte(len(chunk)), 0, 0, 0)
	data = append(data, chunk...)
	data = append(data, 0) // 奇数长度补齐

	w, h, err := decodeWebPDimensions(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if w != width || h != height {
		t.Fatalf("expected %dx%d, got %dx%d", width, height, w, h)
	}
}
