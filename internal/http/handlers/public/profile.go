package public

import (
	"github.com/miniteen-shop/internal/http/response"
	"github.com/miniteen-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 更新个人资料请求（缺省字段不修改，空串清空）
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	RealName *string `json:"real_name"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// GetProfile 获取个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.ProfileService.GetProfile(uid)
	if err != nil {
		respondUserAccountError(c, err, "error.user_not_found")
		return
	}
	response.Success(c, user)
}

// UpdateProfile 更新个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.ProfileService.UpdateProfile(uid, service.UpdateProfileInput{
		Name:     req.Name,
		RealName: req.RealName,
		Phone:    req.Phone,
		Birthday: req.Birthday,
	})
	if err != nil {
		respondUserAccountError(c, err, "error.profile_update_failed")
		return
	}
	response.Success(c, user)
}

// ChangePassword 修改密码，成功后返回新 token
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	token, expiresAt, err := h.ProfileService.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondUserAccountError(c, err, "error.password_change_failed")
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// UploadAvatar 上传头像（multipart 字段 avatar）
func (h *Handler) UploadAvatar(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_required", nil)
		return
	}
	user, err := h.ProfileService.UploadAvatar(c.Request.Context(), uid, file)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	response.Success(c, gin.H{
		"avatar": user.Avatar,
		"user":   user,
	})
}
