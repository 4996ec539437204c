package public

import (
	"time"

	handlershared "github.com/miniteen-shop/internal/http/handlers/shared"
	"github.com/miniteen-shop/internal/http/response"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                              `json:"email" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserAuthResponse 登录/注册成功响应
type UserAuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondUserAccountError(c, err, "error.register_failed")
		return
	}
	response.Success(c, UserAuthResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.CaptchaService.VerifyLogin(req.CaptchaPayload.ToServicePayload()); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_failed")
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondUserAccountError(c, err, "error.login_failed")
		return
	}
	handlershared.RequestLog(c).Infow("user_login_succeeded", "user_id", user.ID, "client_ip", c.ClientIP())
	response.Success(c, UserAuthResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// GetLoginCaptcha 获取登录图片验证码
func (h *Handler) GetLoginCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_failed", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      h.CaptchaService.LoginEnabled(),
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// VerifyUserToken 校验当前登录状态并返回用户信息
func (h *Handler) VerifyUserToken(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondUserAccountError(c, err, "error.user_not_found")
		return
	}
	response.Success(c, gin.H{
		"valid": true,
		"user":  user,
	})
}
