package service

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/miniteen-shop/internal/config"
	"github.com/miniteen-shop/internal/constants"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// UploadService 头像文件存储服务
type UploadService struct {
	cfg config.UploadConfig
	now func() time.Time
}

// NewUploadService 创建上传服务
func NewUploadService(cfg config.UploadConfig) *UploadService {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "uploads"
	}
	return &UploadService{cfg: cfg, now: time.Now}
}

// Dir 上传根目录
func (s *UploadService) Dir() string {
	return s.cfg.Dir
}

// SaveAvatar 校验并保存头像，返回对外访问路径 /uploads/avatars/user-<id>-<ms><ext>
func (s *UploadService) SaveAvatar(userID string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrUploadRequired
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return "", ErrUploadTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
		return "", ErrUploadTypeInvalid
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := s.checkImage(src); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("user-%s-%d%s", userID, s.now().UnixMilli(), ext)
	savePath := filepath.Join(s.cfg.Dir, constants.UploadSceneAvatar, filename)
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadStorageFailure, err)
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadStorageFailure, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(savePath)
		return "", fmt.Errorf("%w: %v", ErrUploadStorageFailure, err)
	}
	return constants.UploadURLPrefix + constants.UploadSceneAvatar + "/" + filename, nil
}

// RemovePublicFile 删除 /uploads/ 下的文件，不存在时忽略
func (s *UploadService) RemovePublicFile(publicPath string) error {
	localPath, ok := s.localPath(publicPath)
	if !ok {
		return nil
	}
	if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// localPath 把对外路径映射回上传目录，拒绝目录穿越
func (s *UploadService) localPath(publicPath string) (string, bool) {
	trimmed := strings.TrimSpace(publicPath)
	if !strings.HasPrefix(trimmed, constants.UploadURLPrefix) {
		return "", false
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(trimmed, constants.UploadURLPrefix)))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", false
	}
	return filepath.Join(s.cfg.Dir, rel), true
}

func (s *UploadService) checkImage(src multipart.File) error {
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return err
	}
	contentType := http.DetectContentType(buffer[:n])
	if !isAllowedContentType(contentType, s.cfg.AllowedTypes) {
		return ErrUploadTypeInvalid
	}

	width, height, err := decodeImageDimensions(src, contentType)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadImageInvalid, err)
	}
	if (s.cfg.MaxWidth > 0 && width > s.cfg.MaxWidth) || (s.cfg.MaxHeight > 0 && height > s.cfg.MaxHeight) {
		return ErrUploadImageInvalid
	}
	_, err = src.Seek(0, io.SeekStart)
	return err
}

func isAllowedContentType(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, t := range allowed {
		if strings.EqualFold(contentType, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if ext == normalized {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	if strings.EqualFold(contentType, "image/webp") {
		return decodeWebPDimensions(src)
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

const webpChunkPeek = 16

// decodeWebPDimensions 解析 VP8 / VP8L / VP8X chunk 获取 WebP 尺寸
func decodeWebPDimensions(src io.Reader) (int, int, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, errors.New("invalid webp header")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		// chunk 按偶数字节对齐；只读取解析尺寸所需的前几个字节，其余丢弃
		padded := chunkSize + chunkSize%2
		peek := padded
		if peek > webpChunkPeek {
			peek = webpChunkPeek
		}
		data := make([]byte, peek)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}
		if _, err := io.CopyN(io.Discard, src, padded-peek); err != nil {
			return 0, 0, err
		}

		switch chunkType {
		case "VP8X":
			if len(data) < 10 {
				return 0, 0, errors.New("vp8x chunk too short")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		case "VP8 ":
			if len(data) < 10 {
				return 0, 0, errors.New("vp8 chunk too short")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		case "VP8L":
			if len(data) < 5 || data[0] != 0x2f {
				return 0, 0, errors.New("invalid vp8l chunk")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			return int(bits&0x3FFF) + 1, int((bits>>14)&0x3FFF) + 1, nil
		}
	}
}
