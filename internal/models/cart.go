package models

import "time"

// Cart 购物车（每个用户一个）
type Cart struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`                 // 主键
	UserID    string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"` // 用户ID
	CreatedAt time.Time  `json:"created_at"`                                           // 创建时间
	UpdatedAt time.Time  `json:"updated_at"`                                           // 更新时间
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`                       // 购物车项（按 SortOrder 排序）
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// FindItem 按商品查找购物车项
func (c *Cart) FindItem(productID string) *CartItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem 购物车项
type CartItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`                                        // 主键
	CartID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item_product" json:"cart_id"`   // 购物车ID
	ProductID string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_cart_item_product" json:"product_id"` // 商品ID（引用，不拥有）
	Quantity  int       `gorm:"not null" json:"quantity"`                                                     // 数量
	SortOrder int64     `gorm:"not null;default:0" json:"-"`                                                  // 加入顺序
	AddedAt   time.Time `gorm:"not null" json:"added_at"`                                                     // 加入时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
