package router

import (
	"fmt"
	"strings"

	"github.com/miniteen-shop/internal/cache"
	"github.com/miniteen-shop/internal/config"
	publichandlers "github.com/miniteen-shop/internal/http/handlers/public"
	handlershared "github.com/miniteen-shop/internal/http/handlers/shared"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/metrics"
	"github.com/miniteen-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	if err := handlershared.RegisterValidators(); err != nil {
		logger.Warnw("router_register_validators_failed", "error", err)
	}

	h := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "miniteen"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}

	// 静态文件服务（上传的头像）
	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.Static("/uploads", uploadDir)

	requireUser := UserJWTAuthMiddleware(c.UserAuthService)
	optionalUser := OptionalUserAuthMiddleware(c.UserAuthService)
	productWrite := ProductWriteAuthzMiddleware(c.AuthzService)

	apiV1 := r.Group("/api/v1")
	{
		// 认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", h.UserRegister)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), h.UserLogin)
			auth.GET("/captcha", h.GetLoginCaptcha)
			auth.GET("/verify", requireUser, h.VerifyUserToken)
		}

		// 商品
		products := apiV1.Group("/products")
		{
			products.GET("", optionalUser, h.ListProducts)
			products.GET("/stats", h.GetProductStats)
			products.GET("/:id", optionalUser, h.GetProduct)
			products.POST("", requireUser, productWrite, h.CreateProduct)
			products.PUT("/:id", requireUser, productWrite, h.UpdateProduct)
			products.DELETE("/:id", requireUser, productWrite, h.DeleteProduct)
		}

		// 购物车
		cart := apiV1.Group("/cart", requireUser)
		{
			cart.GET("", h.GetCart)
			cart.DELETE("", h.ClearCart)
			cart.GET("/validate", h.ValidateCart)
			cart.POST("/items", h.AddCartItem)
			cart.PUT("/items/:product_id", h.UpdateCartItem)
			cart.DELETE("/items/:product_id", h.RemoveCartItem)
		}

		// 个人资料
		profile := apiV1.Group("/profile", requireUser)
		{
			profile.GET("", h.GetProfile)
			profile.PUT("", h.UpdateProfile)
			profile.PUT("/password", h.ChangePassword)
			profile.POST("/avatar", h.UploadAvatar)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(metrics.Handler()))
	}

	return r
}
