package service

import (
	"context"
	"errors"
	"testing"

	"github.com/miniteen-shop/internal/cache"
	"github.com/miniteen-shop/internal/config"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/repository"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingRoleAssigner struct {
	assigned []string
}

func (r *recordingRoleAssigner) AssignUserRole(userID string) error {
	r.assigned = append(r.assigned, userID)
	return nil
}

func newUserAuthServiceForTest(t *testing.T) (*UserAuthService, *recordingRoleAssigner, *config.Config, repository.UserRepository) {
	t.Helper()
	cfg := config.Default()
	cfg.UserJWT.SecretKey = "test-user-secret"
	userRepo := repository.NewUserRepository(openServiceTestDB(t))
	roles := &recordingRoleAssigner{}
	return NewUserAuthService(cfg, userRepo, roles), roles, cfg, userRepo
}

func TestUserAuthRegisterAndResolve(t *testing.T) {
	svc, roles, _, _ := newUserAuthServiceForTest(t)

	user, token, expiresAt, err := svc.Register(context.Background(), "  Mia@Example.COM ", "password123", "Mia")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "mia@example.com" {
		t.Fatalf("email must be stored lowercased, got %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "password123" {
		t.Fatalf("password must be hashed")
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("expected token to be issued")
	}
	if len(roles.assigned) != 1 || roles.assigned[0] != user.ID {
		t.Fatalf("expected shopper role assignment, got %+v", roles.assigned)
	}

	identity, err := svc.ResolveToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identity.UserID != user.ID || identity.Email != user.Email {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestUserAuthRegisterRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _, _, _ := newUserAuthServiceForTest(t)
	if _, _, _, err := svc.Register(context.Background(), "kai@example.com", "password123", "Kai"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, _, _, err := svc.Register(context.Background(), "KAI@Example.com", "password456", "Kai Two")
	if !errors.Is(err, ErrEmailExists) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected email exists conflict, got %v", err)
	}
}

func TestUserAuthRegisterValidation(t *testing.T) {
	svc, _, _, _ := newUserAuthServiceForTest(t)
	cases := []struct {
		name     string
		email    string
		password string
		userName string
		want     error
	}{
		{"bad email", "not-an-email", "password123", "Mia", ErrInvalidEmail},
		{"empty password", "a@example.com", "", "Mia", ErrPasswordRequired},
		{"short password", "a@example.com", "short", "Mia", ErrWeakPassword},
		{"short name", "a@example.com", "password123", " M ", ErrNameTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Register(context.Background(), tc.email, tc.password, tc.userName)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
}

func TestUserAuthLogin(t *testing.T) {
	svc, _, _, _ := newUserAuthServiceForTest(t)
	if _, _, _, err := svc.Register(context.Background(), "ren@example.com", "password123", "Ren"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login(context.Background(), "REN@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user.LastLoginAt == nil {
		t.Fatalf("expected token and last login time")
	}

	if _, _, _, err := svc.Login(context.Background(), "ren@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "ghost@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	if err := svc.SetActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "ren@example.com", "password123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got %v", err)
	}
}

func TestUserAuthResolveTokenRejectsInactiveUser(t *testing.T) {
	svc, _, _, _ := newUserAuthServiceForTest(t)
	user, token, _, err := svc.Register(context.Background(), "lea@example.com", "password123", "Lea")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.SetActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if _, err := svc.ResolveToken(context.Background(), token); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got %v", err)
	}
}

func TestUserAuthResolveTokenErrors(t *testing.T) {
	svc, _, cfg, _ := newUserAuthServiceForTest(t)
	user, token, _, err := svc.Register(context.Background(), "noa@example.com", "password123", "Noa")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.ResolveToken(context.Background(), ""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected token missing, got %v", err)
	}
	if _, err := svc.ResolveToken(context.Background(), "garbage.token.value"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got %v", err)
	}

	other := NewUserAuthService(&config.Config{UserJWT: config.JWTConfig{SecretKey: "another-secret"}}, nil, nil)
	forged, _, err := other.GenerateUserJWT(user)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := svc.ResolveToken(context.Background(), forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected signature mismatch to be invalid, got %v", err)
	}

	cfg.UserJWT.SecretKey = "rotated"
	if _, err := svc.ResolveToken(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected rotated secret to reject token, got %v", err)
	}
}

func TestUserAuthLogsCacheWriteFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prevLogger := logger.L
	logger.L = zap.New(core)
	prevSet := setAuthState
	setAuthState = func(context.Context, *cache.UserAuthState) error {
		return errors.New("redis unavailable")
	}
	t.Cleanup(func() {
		logger.L = prevLogger
		setAuthState = prevSet
	})

	svc, _, _, _ := newUserAuthServiceForTest(t)
	if _, _, _, err := svc.Register(context.Background(), "ivy@example.com", "password123", "Ivy"); err != nil {
		t.Fatalf("register should succeed without cache, got %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "ivy@example.com", "password123"); err != nil {
		t.Fatalf("login should succeed without cache, got %v", err)
	}
	if got := logs.FilterMessage("user_auth_state_cache_set_failed").Len(); got != 2 {
		t.Fatalf("expected 2 cache failure logs, got %d", got)
	}
}

func TestUserAuthSetActiveByEmail(t *testing.T) {
	svc, _, _, _ := newUserAuthServiceForTest(t)
	_, token, _, err := svc.Register(context.Background(), "noa@example.com", "password123", "Noa")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.SetActiveByEmail(context.Background(), " NOA@example.com ", false)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if user.IsActive {
		t.Fatalf("user should be inactive")
	}
	if _, err := svc.ResolveToken(context.Background(), token); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("token of deactivated user want ErrUserDisabled, got %v", err)
	}

	if _, err := svc.SetActiveByEmail(context.Background(), "noa@example.com", true); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if _, err := svc.ResolveToken(context.Background(), token); err != nil {
		t.Fatalf("token should resolve after reactivation, got %v", err)
	}

	if _, err := svc.SetActiveByEmail(context.Background(), "ghost@example.com", false); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown email want ErrUserNotFound, got %v", err)
	}
	if _, err := svc.SetActiveByEmail(context.Background(), "not-an-email", false); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad email want ErrInvalidEmail, got %v", err)
	}
}
