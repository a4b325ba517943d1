package models

import "time"

// Delivery 交付记录表（与订单一对一）
type Delivery struct {
	ID          uint       `gorm:"primarykey" json:"id"`                 // 主键
	OrderID     uint       `gorm:"uniqueIndex;not null" json:"order_id"` // 订单ID
	Status      string     `gorm:"index;not null" json:"status"`         // 交付状态
	Carrier     string     `gorm:"default:''" json:"carrier"`            // 承运商
	TrackingNo  string     `gorm:"default:''" json:"tracking_no"`        // 运单号
	UpdatedBy   *uint      `gorm:"index" json:"updated_by,omitempty"`    // 最后操作人
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`                 // 发货时间
	DeliveredAt *time.Time `gorm:"index" json:"delivered_at,omitempty"`  // 送达时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`              // 更新时间
}

// TableName 指定表名
func (Delivery) TableName() string {
	return "deliveries"
}
