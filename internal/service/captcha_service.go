package service

import (
	"strings"
	"time"

	"github.com/miniteen-shop/internal/config"

	"github.com/mojocn/base64Captcha"
)

const captchaCharset = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// CaptchaPayload 登录请求携带的验证码
type CaptchaPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 登录图片验证码服务
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务，store 为空时使用内存存储
func NewCaptchaService(cfg config.CaptchaConfig, store base64Captcha.Store) *CaptchaService {
	if store == nil {
		maxStore := cfg.MaxStore
		if maxStore <= 0 {
			maxStore = base64Captcha.GCLimitNumber
		}
		expire := time.Duration(cfg.ExpireSeconds) * time.Second
		if expire <= 0 {
			expire = base64Captcha.Expiration
		}
		store = base64Captcha.NewMemoryStore(maxStore, expire)
	}
	return &CaptchaService{cfg: cfg, store: store}
}

// LoginEnabled 登录是否需要验证码
func (s *CaptchaService) LoginEnabled() bool {
	return s != nil && s.cfg.LoginEnabled
}

// Generate 生成图片验证码
func (s *CaptchaService) Generate() (*CaptchaImageChallenge, error) {
	driver := base64Captcha.NewDriverString(
		positiveOr(s.cfg.Height, 80),
		positiveOr(s.cfg.Width, 240),
		s.cfg.NoiseCount,
		s.cfg.ShowLine,
		positiveOr(s.cfg.Length, 5),
		captchaCharset,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	id, b64s, _, err := base64Captcha.NewCaptcha(driver, s.store).Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// VerifyLogin 校验登录验证码，未开启时直接通过；验证码一次有效
func (s *CaptchaService) VerifyLogin(payload CaptchaPayload) error {
	if !s.LoginEnabled() {
		return nil
	}
	id := strings.TrimSpace(payload.CaptchaID)
	code := strings.TrimSpace(payload.CaptchaCode)
	if id == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.store.Verify(id, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
