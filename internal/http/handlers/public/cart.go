package public

import (
	"time"

	"github.com/miniteen-shop/internal/constants"
	"github.com/miniteen-shop/internal/http/response"
	"github.com/miniteen-shop/internal/i18n"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CartAddRequest 加入购物车请求
type CartAddRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartInfo 购物车基本信息
type CartInfo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLineResponse 购物车行响应
type CartLineResponse struct {
	ID        string         `json:"id"`
	ProductID string         `json:"product_id"`
	Quantity  int            `json:"quantity"`
	AddedAt   time.Time      `json:"added_at"`
	Product   models.Product `json:"product"`
	Subtotal  models.Money   `json:"subtotal"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Cart        CartInfo           `json:"cart"`
	Items       []CartLineResponse `json:"items"`
	TotalItems  int                `json:"total_items"`
	TotalAmount models.Money       `json:"total_amount"`
}

// StockIssueResponse 库存问题（附本地化提示）
type StockIssueResponse struct {
	service.StockIssue
	Message string `json:"message"`
}

// GetCart 获取购物车（不存在时创建）
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetOrCreate(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	h.respondCart(c, cart)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := h.CartService.Add(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, cart)
}

// UpdateCartItem 修改购物车数量，数量不大于 0 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := h.CartService.SetQuantity(uid, c.Param("product_id"), *req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, cart)
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Remove(uid, c.Param("product_id"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Clear(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, cart)
}

// ValidateCart 校验购物车库存
func (h *Handler) ValidateCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetOrCreate(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	result, err := h.CartService.ValidateStock(cart)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}

	locale := i18n.ResolveLocale(c)
	issues := make([]StockIssueResponse, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, StockIssueResponse{
			StockIssue: issue,
			Message:    stockIssueMessage(locale, issue),
		})
	}
	response.Success(c, gin.H{
		"valid":  result.Valid,
		"issues": issues,
	})
}

func stockIssueMessage(locale string, issue service.StockIssue) string {
	switch issue.Reason {
	case constants.StockIssueOutOfStock:
		return i18n.Sprintf(locale, "stock.out_of_stock", issue.ProductName)
	case constants.StockIssueInsufficient:
		return i18n.Sprintf(locale, "stock.insufficient", issue.ProductName, issue.Remaining)
	default:
		return i18n.Sprintf(locale, "stock.missing", issue.ProductID)
	}
}

func (h *Handler) respondCart(c *gin.Context, cart *models.Cart) {
	summary, err := h.CartService.Summarize(cart)
	if err != nil {
		respondCartError(c, err)
		return
	}
	resp := CartResponse{
		Cart: CartInfo{
			ID:        cart.ID,
			UserID:    cart.UserID,
			CreatedAt: cart.CreatedAt,
			UpdatedAt: cart.UpdatedAt,
		},
		Items:       make([]CartLineResponse, 0, len(summary.Lines)),
		TotalItems:  summary.TotalItems,
		TotalAmount: summary.TotalAmount,
	}
	for _, line := range summary.Lines {
		resp.Items = append(resp.Items, CartLineResponse{
			ID:        line.Item.ID,
			ProductID: line.Item.ProductID,
			Quantity:  line.Item.Quantity,
			AddedAt:   line.Item.AddedAt,
			Product:   line.Product,
			Subtotal:  line.Subtotal,
		})
	}
	response.Success(c, resp)
}
