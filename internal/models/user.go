package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（顾客与员工共用，角色区分权限）
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                        // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                                        // 密码哈希（不返回给前端）
	Name         string         `gorm:"default:''" json:"name"`                                   // 姓名
	Role         string         `gorm:"type:varchar(32);not null;default:'customer'" json:"role"` // 角色
	Address      string         `gorm:"type:text" json:"address"`                                 // 默认地址
	TaxID        string         `gorm:"type:varchar(64);default:''" json:"tax_id"`                // 税号（发票用）
	LastLoginAt  *time.Time     `json:"last_login_at"`                                            // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
