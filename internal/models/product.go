package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Name          string         `gorm:"not null" json:"name"`                                        // 名称
	Description   string         `gorm:"type:text" json:"description"`                                // 描述
	Material      string         `gorm:"default:''" json:"material"`                                  // 材质
	Color         string         `gorm:"default:''" json:"color"`                                     // 颜色
	Category      string         `gorm:"index;default:''" json:"category"`                            // 分类
	MainCategory  string         `gorm:"index;default:''" json:"main_category"`                       // 主分类
	ImageURL      string         `gorm:"default:''" json:"image_url"`                                 // 主图
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`          // 当前售价
	OriginalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"` // 划线价（0 表示无折扣）
	Stock         int            `gorm:"not null;default:0" json:"stock"`                             // 库存总量
	HeldStock     int            `gorm:"not null;default:0" json:"held_stock"`                        // 预留库存（不可售）
	AverageRating float64        `gorm:"not null;default:0" json:"average_rating"`                    // 平均评分
	RatingCount   int            `gorm:"not null;default:0" json:"rating_count"`                      // 评分数量
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`                      // 是否上架
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// AvailableStock 可售库存
func (p Product) AvailableStock() int {
	available := p.Stock - p.HeldStock
	if available < 0 {
		return 0
	}
	return available
}
