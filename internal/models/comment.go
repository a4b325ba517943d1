package models

import "time"

// Comment 商品评价（同一用户同一商品仅一条）
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                  // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user_product" json:"user_id"`          // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_comment_user_product;index" json:"product_id"` // 商品ID
	Rating    int       `gorm:"not null" json:"rating"`                                                // 评分 1-5
	Content   string    `gorm:"type:text" json:"content"`                                              // 评价内容
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                               // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                               // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
