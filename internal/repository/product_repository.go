package repository

import (
	"errors"
	"strings"

	"github.com/miniteen-shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	ListByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) (bool, error)
	Stats() (*ProductStatsRow, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表，按写入顺序稳定排序
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.InStock != nil {
		query = query.Where("in_stock = ?", *filter.InStock)
	}
	if filter.IsNew != nil {
		// is_new 为 NULL 的商品不匹配任何取值
		query = query.Where("is_new = ?", *filter.IsNew)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(containsConditionByDialect(dbDialectName(r.db), "name", "name_search"), containsPattern(search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("sort_order ASC, id ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品（缺失的 ID 不报错）
func (r *GormProductRepository) ListByIDs(ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品，SortOrder 取当前最大值 + 1
func (r *GormProductRepository) Create(product *models.Product) error {
	if product == nil {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int64
		if err := tx.Unscoped().Model(&models.Product{}).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		product.SortOrder = maxOrder + 1
		return tx.Create(product).Error
	})
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品，返回记录是否存在
func (r *GormProductRepository) Delete(id string) (bool, error) {
	result := r.db.Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Stats 商品聚合统计
func (r *GormProductRepository) Stats() (*ProductStatsRow, error) {
	var row struct {
		Total    int64
		InStock  int64
		NewCount int64
	}
	if err := r.db.Model(&models.Product{}).
		Select("COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN in_stock = ? THEN 1 ELSE 0 END), 0) AS in_stock, " +
			"COALESCE(SUM(CASE WHEN is_new = ? THEN 1 ELSE 0 END), 0) AS new_count", true, true).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	stats := &ProductStatsRow{
		Total:      row.Total,
		InStock:    row.InStock,
		OutOfStock: row.Total - row.InStock,
		New:        row.NewCount,
		ByCategory: map[string]int64{},
	}

	var categoryRows []struct {
		Category string
		Count    int64
	}
	if err := r.db.Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&categoryRows).Error; err != nil {
		return nil, err
	}
	for _, item := range categoryRows {
		stats.ByCategory[item.Category] = item.Count
	}
	return stats, nil
}
