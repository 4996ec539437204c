package public

import (
	handlershared "github.com/miniteen-shop/internal/http/handlers/shared"
	"github.com/miniteen-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (string, bool) {
	return handlershared.GetUserID(c)
}

func optionalUserID(c *gin.Context) string {
	return handlershared.OptionalUserID(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorf(c *gin.Context, code int, key string, args ...interface{}) {
	handlershared.RespondErrorf(c, code, key, args...)
}

// respondBindError 请求体绑定失败
func respondBindError(c *gin.Context, err error) {
	handlershared.RespondError(c, response.CodeBadRequest, handlershared.BindErrorKey(err), err)
}
