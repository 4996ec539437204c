package public

import "github.com/miniteen-shop/internal/provider"

// Handler 前台接口处理器入口
// 说明：商品、购物车、认证、个人资料接口共用同一个容器。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
