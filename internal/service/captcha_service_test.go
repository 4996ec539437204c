package service

import (
	"errors"
	"testing"
	"time"

	"github.com/miniteen-shop/internal/config"

	"github.com/mojocn/base64Captcha"
)

func TestCaptchaVerifyLoginDisabledPasses(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{LoginEnabled: false}, nil)
	if err := svc.VerifyLogin(CaptchaPayload{}); err != nil {
		t.Fatalf("disabled captcha must pass, got %v", err)
	}
}

func TestCaptchaVerifyLoginOneShot(t *testing.T) {
	store := base64Captcha.NewMemoryStore(16, time.Minute)
	svc := NewCaptchaService(config.CaptchaConfig{LoginEnabled: true}, store)
	if err := store.Set("cid-1", "k7m2p"); err != nil {
		t.Fatalf("seed captcha failed: %v", err)
	}

	if err := svc.VerifyLogin(CaptchaPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected captcha required, got %v", err)
	}
	if err := svc.VerifyLogin(CaptchaPayload{CaptchaID: "cid-1", CaptchaCode: "k7m2p"}); err != nil {
		t.Fatalf("expected captcha to verify, got %v", err)
	}
	if err := svc.VerifyLogin(CaptchaPayload{CaptchaID: "cid-1", CaptchaCode: "k7m2p"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("captcha must be single use, got %v", err)
	}
}

func TestCaptchaGenerate(t *testing.T) {
	svc := NewCaptchaService(config.Default().Captcha, nil)
	challenge, err := svc.Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
}
