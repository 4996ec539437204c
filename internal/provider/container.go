package provider

import (
	"context"
	"time"

	"github.com/miniteen-shop/internal/authz"
	"github.com/miniteen-shop/internal/cache"
	"github.com/miniteen-shop/internal/config"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/queue"
	"github.com/miniteen-shop/internal/repository"
	"github.com/miniteen-shop/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository

	// Services
	AuthzService    *authz.Service
	UserAuthService *service.UserAuthService
	ProfileService  *service.ProfileService
	UploadService   *service.UploadService
	CaptchaService  *service.CaptchaService
	ProductService  *service.ProductService
	CartService     *service.CartService
}

// NewContainer 初始化容器，使用全局 models.DB
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(context.Background(), &cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 基于指定数据库构建容器（测试可直接注入内存库）
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	statsTTL := time.Duration(c.Config.Catalog.StatsCacheTTLSeconds) * time.Second

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha, nil)
	c.UploadService = service.NewUploadService(c.Config.Upload)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.AuthzService)
	c.ProfileService = service.NewProfileService(c.Config, c.UserRepo, c.UserAuthService, c.UploadService, c.QueueClient)
	c.ProductService = service.NewProductService(c.ProductRepo, c.QueueClient, statsTTL)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
