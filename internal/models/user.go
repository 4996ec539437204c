package models

import "time"

// User 用户表
type User struct {
	ID                string     `gorm:"primaryKey;type:varchar(36)" json:"id"`              // 主键（UUID）
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`                  // 邮箱（小写存储）
	PasswordHash      string     `gorm:"not null" json:"-"`                                  // 密码哈希（不返回给前端）
	Name              string     `gorm:"type:varchar(100);not null" json:"name"`             // 昵称
	RealName          string     `gorm:"type:varchar(100);default:''" json:"real_name"`      // 真实姓名
	Phone             string     `gorm:"type:varchar(20);default:''" json:"phone"`           // 手机号
	Birthday          string     `gorm:"type:varchar(10);default:''" json:"birthday"`        // 生日（YYYY-MM-DD）
	Avatar            string     `gorm:"type:varchar(512);default:''" json:"avatar"`         // 头像地址
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`             // 是否启用
	TokenVersion      uint64     `gorm:"not null;default:0" json:"-"`                        // Token 版本（改密后递增）
	PasswordUpdatedAt *time.Time `json:"password_updated_at,omitempty"`                      // 密码更新时间
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`                            // 最后登录时间
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
