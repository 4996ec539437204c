package service

import (
	"context"
	"strings"
	"time"

	"github.com/miniteen-shop/internal/cache"
	"github.com/miniteen-shop/internal/constants"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/queue"
	"github.com/miniteen-shop/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ProductService 商品业务服务
type ProductService struct {
	repo        repository.ProductRepository
	queueClient *queue.Client
	statsTTL    time.Duration
	statsFlight singleflight.Group
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, queueClient *queue.Client, statsTTL time.Duration) *ProductService {
	return &ProductService{
		repo:        repo,
		queueClient: queueClient,
		statsTTL:    statsTTL,
	}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Name       string
	Price      models.Money
	Category   string
	Image      string
	StockCount int
	IsNew      *bool
}

// UpdateProductInput 更新商品输入（nil 表示不修改）
type UpdateProductInput struct {
	Name       *string
	Price      *models.Money
	Category   *string
	Image      *string
	StockCount *int
	IsNew      *bool
}

// ProductListResult 商品分页结果
type ProductListResult struct {
	Products   []models.Product
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// ProductStats 商品统计
type ProductStats = cache.ProductStats

// List 按过滤条件分页查询商品
func (s *ProductService) List(filter repository.ProductListFilter, page, pageSize int) (*ProductListResult, error) {
	if page < 1 || pageSize <= 0 {
		return nil, ErrInvalidPagination
	}
	filter.Page = page
	filter.PageSize = pageSize
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)

	products, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{
		Products:   products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNameRequired
	}
	if err := validateProductPrice(input.Price); err != nil {
		return nil, err
	}
	if input.StockCount < 0 {
		return nil, ErrProductStockInvalid
	}
	category := strings.TrimSpace(input.Category)
	if !constants.IsValidProductCategory(category) {
		return nil, ErrProductCategoryInvalid
	}

	now := time.Now()
	product := &models.Product{
		ID:         newProductID(),
		Name:       name,
		Price:      models.NewMoneyFromDecimal(input.Price.Decimal),
		Category:   category,
		Image:      strings.TrimSpace(input.Image),
		StockCount: input.StockCount,
		IsNew:      input.IsNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	product.SyncStock()

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.afterCatalogChanged(ctx, "create", product.ID)
	return product, nil
}

// Update 合并更新商品字段，库存变化时重新推导有货标记
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProductNameRequired
		}
		product.Name = name
	}
	if input.Price != nil {
		if err := validateProductPrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if !constants.IsValidProductCategory(category) {
			return nil, ErrProductCategoryInvalid
		}
		product.Category = category
	}
	if input.Image != nil {
		product.Image = strings.TrimSpace(*input.Image)
	}
	if input.StockCount != nil {
		if *input.StockCount < 0 {
			return nil, ErrProductStockInvalid
		}
		product.StockCount = *input.StockCount
		product.SyncStock()
	}
	if input.IsNew != nil {
		isNew := *input.IsNew
		product.IsNew = &isNew
	}
	product.UpdatedAt = time.Now()

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.afterCatalogChanged(ctx, "update", product.ID)
	return product, nil
}

// Delete 删除商品，返回商品此前是否存在
func (s *ProductService) Delete(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, nil
	}
	existed, err := s.repo.Delete(id)
	if err != nil {
		return false, err
	}
	if existed {
		s.afterCatalogChanged(ctx, "delete", id)
	}
	return existed, nil
}

// Stats 商品统计，命中缓存时直接返回
func (s *ProductService) Stats(ctx context.Context) (*ProductStats, error) {
	if cached, hit, err := cache.GetProductStats(ctx); err != nil {
		logger.Warnw("product_stats_cache_get_failed", "error", err)
	} else if hit {
		return cached, nil
	}

	// 缓存未命中时合并并发的重算请求
	result, err, _ := s.statsFlight.Do("product_stats", func() (interface{}, error) {
		stats, err := s.computeStats()
		if err != nil {
			return nil, err
		}
		if err := cache.SetProductStats(ctx, stats, s.statsTTL); err != nil {
			logger.Warnw("product_stats_cache_set_failed", "error", err)
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ProductStats), nil
}

// WarmStats 重新计算并写入统计缓存（供异步任务调用）
func (s *ProductService) WarmStats(ctx context.Context) error {
	stats, err := s.computeStats()
	if err != nil {
		return err
	}
	return cache.SetProductStats(ctx, stats, s.statsTTL)
}

func (s *ProductService) computeStats() (*ProductStats, error) {
	row, err := s.repo.Stats()
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]int64, len(constants.ProductCategories))
	for _, category := range constants.ProductCategories {
		byCategory[category] = row.ByCategory[category]
	}
	return &ProductStats{
		Total:      row.Total,
		InStock:    row.InStock,
		OutOfStock: row.OutOfStock,
		New:        row.New,
		ByCategory: byCategory,
	}, nil
}

func (s *ProductService) afterCatalogChanged(ctx context.Context, action, productID string) {
	logger.Infow("product_catalog_changed", "action", action, "product_id", productID)
	if err := cache.InvalidateProductStats(ctx); err != nil {
		logger.Warnw("product_stats_cache_invalidate_failed", "product_id", productID, "error", err)
	}
	if err := s.queueClient.EnqueueProductStatsWarm(); err != nil {
		logger.Warnw("product_stats_warm_enqueue_failed", "product_id", productID, "error", err)
	}
}

// 价格按两位小数取整后必须大于 0
func validateProductPrice(price models.Money) error {
	if !models.NewMoneyFromDecimal(price.Decimal).IsPositive() {
		return ErrProductPriceInvalid
	}
	return nil
}

func newProductID() string {
	return constants.ProductIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
