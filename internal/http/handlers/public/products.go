package public

import (
	"strconv"
	"strings"

	"github.com/miniteen-shop/internal/constants"
	handlershared "github.com/miniteen-shop/internal/http/handlers/shared"
	"github.com/miniteen-shop/internal/http/response"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/repository"
	"github.com/miniteen-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductCreateRequest 创建商品请求
type ProductCreateRequest struct {
	Name       string       `json:"name"`
	Price      models.Money `json:"price"`
	Category   string       `json:"category" binding:"omitempty,product_category"`
	Image      string       `json:"image"`
	StockCount int          `json:"stock_count"`
	IsNew      *bool        `json:"is_new"`
}

// ProductUpdateRequest 更新商品请求（缺省字段不修改）
type ProductUpdateRequest struct {
	Name       *string       `json:"name"`
	Price      *models.Money `json:"price"`
	Category   *string       `json:"category" binding:"omitempty,product_category"`
	Image      *string       `json:"image"`
	StockCount *int          `json:"stock_count"`
	IsNew      *bool         `json:"is_new"`
}

// ProductDetailResponse 商品详情，已登录时附带购物车数量
type ProductDetailResponse struct {
	models.Product
	CartQuantity *int `json:"cart_quantity,omitempty"`
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	filter, ok := parseProductListFilter(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize, h.Config.Catalog.DefaultPageSize, h.Config.Catalog.MaxPageSize)

	result, err := h.ProductService.List(filter, page, pageSize)
	if err != nil {
		respondProductError(c, err, "error.product_fetch_failed")
		return
	}
	response.SuccessWithPage(c, result.Products, response.NewPagination(result.Page, result.PageSize, result.Total))
}

func parseProductListFilter(c *gin.Context) (repository.ProductListFilter, bool) {
	filter := repository.ProductListFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if filter.Category != "" && !constants.IsValidProductCategory(filter.Category) {
		respondError(c, response.CodeBadRequest, "error.product_category_invalid", nil)
		return filter, false
	}

	var ok bool
	if filter.InStock, ok = parseOptionalBool(c, "in_stock"); !ok {
		return filter, false
	}
	if filter.IsNew, ok = parseOptionalBool(c, "is_new"); !ok {
		return filter, false
	}
	if filter.MinPrice, ok = parseOptionalMoney(c, "min_price"); !ok {
		return filter, false
	}
	if filter.MaxPrice, ok = parseOptionalMoney(c, "max_price"); !ok {
		return filter, false
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(filter.MaxPrice.Decimal) {
		respondError(c, response.CodeBadRequest, "error.price_filter_invalid", nil)
		return filter, false
	}
	return filter, true
}

func parseOptionalBool(c *gin.Context, key string) (*bool, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return nil, false
	}
	return &value, true
}

func parseOptionalMoney(c *gin.Context, key string) (*models.Money, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	value, err := models.NewMoneyFromString(raw)
	if err != nil || value.IsNegative() {
		respondError(c, response.CodeBadRequest, "error.price_filter_invalid", nil)
		return nil, false
	}
	return &value, true
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetByID(c.Param("id"))
	if err != nil {
		respondProductError(c, err, "error.product_fetch_failed")
		return
	}

	resp := ProductDetailResponse{Product: *product}
	if uid := optionalUserID(c); uid != "" {
		quantity, err := h.CartService.CartQuantity(uid, product.ID)
		if err != nil {
			handlershared.RequestLog(c).Warnw("product_cart_quantity_failed", "product_id", product.ID, "error", err)
		} else {
			resp.CartQuantity = &quantity
		}
	}
	response.Success(c, resp)
}

// GetProductStats 商品统计
func (h *Handler) GetProductStats(c *gin.Context) {
	stats, err := h.ProductService.Stats(c.Request.Context())
	if err != nil {
		respondProductError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, stats)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), service.CreateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		Category:   req.Category,
		Image:      req.Image,
		StockCount: req.StockCount,
		IsNew:      req.IsNew,
	})
	if err != nil {
		respondProductError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), c.Param("id"), service.UpdateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		Category:   req.Category,
		Image:      req.Image,
		StockCount: req.StockCount,
		IsNew:      req.IsNew,
	})
	if err != nil {
		respondProductError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	existed, err := h.ProductService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondProductError(c, err, "error.product_delete_failed")
		return
	}
	if !existed {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
