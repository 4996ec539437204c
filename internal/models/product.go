package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID         string         `gorm:"primaryKey;type:varchar(32)" json:"id"`                           // 商品ID（prod_xxxxxxxx）
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`                          // 名称
	NameSearch string         `gorm:"type:varchar(255);not null;default:'';index" json:"-"`           // 小写名称（检索用）
	Price      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`              // 售价
	Category   string         `gorm:"type:varchar(32);not null;index" json:"category"`                 // 分类（accessory/stationery/lifestyle）
	Image      string         `gorm:"type:varchar(512);not null;default:''" json:"image"`              // 图片地址
	InStock    bool           `gorm:"not null;default:false;index" json:"in_stock"`                    // 是否有货（由 StockCount 推导）
	StockCount int            `gorm:"not null;default:0" json:"stock_count"`                           // 库存数量
	IsNew      *bool          `gorm:"index" json:"is_new,omitempty"`                                   // 新品标记（可为空）
	SortOrder  int64          `gorm:"not null;default:0;index" json:"-"`                               // 写入顺序
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// SyncStock 根据库存数量刷新有货标记
func (p *Product) SyncStock() {
	p.InStock = p.StockCount > 0
}

// BeforeSave 写入前同步小写名称，sqlite 的 LOWER 只处理 ASCII
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.NameSearch = strings.ToLower(p.Name)
	return nil
}
