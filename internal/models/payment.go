package models

import "time"

// Payment 支付审计记录（只追加，不更新）
type Payment struct {
	ID             uint       `gorm:"primarykey" json:"id"`                      // 主键
	OrderID        uint       `gorm:"index;not null" json:"order_id"`            // 订单ID
	UserID         uint       `gorm:"index;not null" json:"user_id"`             // 用户ID
	Amount         Money      `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额
	Currency       string     `gorm:"type:varchar(16);not null" json:"currency"` // 币种
	Method         string     `gorm:"type:varchar(32);not null" json:"method"`   // 支付方式
	Status         string     `gorm:"index;not null" json:"status"`              // 支付状态
	TransactionRef string     `gorm:"index;default:''" json:"transaction_ref"`   // 交易流水号
	RecordedBy     uint       `gorm:"index;not null" json:"recorded_by"`         // 记录人
	PaidAt         *time.Time `gorm:"index" json:"paid_at"`                      // 支付时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                   // 创建时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
