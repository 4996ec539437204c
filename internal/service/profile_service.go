package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/miniteen-shop/internal/cache"
	"github.com/miniteen-shop/internal/config"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/queue"
	"github.com/miniteen-shop/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const birthdayLayout = "2006-01-02"

// UpdateProfileInput 资料更新输入（nil 表示不修改，空串表示清空）
type UpdateProfileInput struct {
	Name     *string
	RealName *string
	Phone    *string
	Birthday *string
}

// ProfileService 个人资料服务
type ProfileService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	auth        *UserAuthService
	uploads     *UploadService
	queueClient *queue.Client
}

// NewProfileService 创建个人资料服务
func NewProfileService(cfg *config.Config, userRepo repository.UserRepository, auth *UserAuthService, uploads *UploadService, queueClient *queue.Client) *ProfileService {
	return &ProfileService{
		cfg:         cfg,
		userRepo:    userRepo,
		auth:        auth,
		uploads:     uploads,
		queueClient: queueClient,
	}
}

// GetProfile 获取个人资料
func (s *ProfileService) GetProfile(userID string) (*models.User, error) {
	return s.auth.GetUserByID(userID)
}

// UpdateProfile 更新个人资料
func (s *ProfileService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.auth.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.RealName != nil {
		user.RealName = strings.TrimSpace(*input.RealName)
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone != "" && !isTenDigits(phone) {
			return nil, ErrPhoneInvalid
		}
		user.Phone = phone
	}
	if input.Birthday != nil {
		birthday := strings.TrimSpace(*input.Birthday)
		if birthday != "" {
			if _, err := time.Parse(birthdayLayout, birthday); err != nil {
				return nil, ErrBirthdayInvalid
			}
		}
		user.Birthday = birthday
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 修改密码，旧 token 随版本递增失效，返回新 token
func (s *ProfileService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, time.Time, error) {
	user, err := s.auth.GetUserByID(userID)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return "", time.Time{}, ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return "", time.Time{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now()
	user.PasswordHash = string(hashedPassword)
	user.PasswordUpdatedAt = &now
	user.UpdatedAt = now
	user.TokenVersion++
	if err := s.userRepo.Update(user); err != nil {
		return "", time.Time{}, err
	}
	if err := cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("user_auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("user_password_changed", "user_id", user.ID)
	return s.auth.GenerateUserJWT(user)
}

// UploadAvatar 保存新头像并清理旧文件
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*models.User, error) {
	user, err := s.auth.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	publicPath, err := s.uploads.SaveAvatar(user.ID, file)
	if err != nil {
		return nil, err
	}

	previous := user.Avatar
	user.Avatar = publicPath
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		_ = s.uploads.RemovePublicFile(publicPath)
		return nil, err
	}
	if previous != "" && previous != publicPath {
		s.cleanupAvatar(user.ID, previous)
	}
	return user, nil
}

// cleanupAvatar 队列可用时异步删除，否则直接删除
func (s *ProfileService) cleanupAvatar(userID, path string) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueAvatarCleanup(queue.AvatarCleanupPayload{UserID: userID, Path: path})
		if err == nil {
			return
		}
		logger.Warnw("avatar_cleanup_enqueue_failed", "user_id", userID, "path", path, "error", err)
	}
	if err := s.uploads.RemovePublicFile(path); err != nil {
		logger.Warnw("avatar_cleanup_failed", "user_id", userID, "path", path, "error", err)
	}
}

func isTenDigits(value string) bool {
	if len(value) != 10 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
