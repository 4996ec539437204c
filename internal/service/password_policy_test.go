package service

import (
	"errors"
	"testing"

	"github.com/miniteen-shop/internal/config"
)

func TestValidatePassword(t *testing.T) {
	strict := config.PasswordPolicyConfig{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}
	cases := []struct {
		name     string
		password string
		key      string
	}{
		{"too short", "Ab1!", "error.password_min_length"},
		{"no upper", "abcdefg1!", "error.password_require_upper"},
		{"no lower", "ABCDEFG1!", "error.password_require_lower"},
		{"no number", "Abcdefgh!", "error.password_require_number"},
		{"no special", "Abcdefg12", "error.password_require_special"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(strict, tc.password)
			var policyErr passwordPolicyError
			if !errors.As(err, &policyErr) || policyErr.Key() != tc.key {
				t.Fatalf("expected %s, got %v", tc.key, err)
			}
			if !errors.Is(err, ErrWeakPassword) || !errors.Is(err, ErrValidation) {
				t.Fatalf("policy errors must be validation errors, got %v", err)
			}
		})
	}

	if err := validatePassword(strict, "Abcdef1!x"); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
	if err := validatePassword(strict, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected password required, got %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{MinLength: 8}, "密碼密碼密碼密碼"); err != nil {
		t.Fatalf("length counts runes, got %v", err)
	}
}
