package shared

import (
	"strings"

	"github.com/miniteen-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
)

// GetUserID 读取已认证用户 ID，缺失时直接写入 401 响应。
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	id, ok := value.(string)
	if !ok || strings.TrimSpace(id) == "" {
		RespondError(c, response.CodeUnauthorized, "error.user_id_invalid", nil)
		return "", false
	}
	return id, true
}

// OptionalUserID 读取可选身份，未登录时返回空串。
func OptionalUserID(c *gin.Context) string {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
