package repository

import (
	"errors"
	"time"

	"github.com/miniteen-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID string) (*models.Cart, error)
	GetByUserForUpdate(userID string) (*models.Cart, error)
	CreateIfAbsent(cart *models.Cart) error
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID string, quantity int) error
	DeleteItem(cartID, productID string) (bool, error)
	ClearItems(cartID string) error
	Touch(cartID string, at time.Time) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByUser 获取用户购物车（含按加入顺序排列的购物车项）
func (r *GormCartRepository) GetByUser(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, added_at ASC")
	}).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// GetByUserForUpdate 加锁获取用户购物车，同一用户的购物车写操作在事务内串行
func (r *GormCartRepository) GetByUserForUpdate(userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	// 购物车项在持有购物车行锁之后读取
	if err := r.db.Where("cart_id = ?", cart.ID).
		Order("sort_order ASC, added_at ASC").
		Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// CreateIfAbsent 创建购物车，user_id 冲突时静默忽略
func (r *GormCartRepository) CreateIfAbsent(cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	return r.db.Omit("Items").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(cart).Error
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID string, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error
}

// DeleteItem 删除购物车项，返回记录是否存在
func (r *GormCartRepository) DeleteItem(cartID, productID string) (bool, error) {
	result := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID string) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// Touch 刷新购物车更新时间
func (r *GormCartRepository) Touch(cartID string, at time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("updated_at", at).Error
}
