package models

import "time"

// Address 地址快照
type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsZero 地址是否为空
func (a Address) IsZero() bool {
	return a.Line1 == "" && a.City == "" && a.Country == ""
}

// Order 订单表（创建后仅状态可变，不删除）
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo         string     `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单号
	UserID          uint       `gorm:"index;not null;uniqueIndex:idx_order_user_idem" json:"user_id"` // 用户ID
	IdempotencyKey  *string    `gorm:"type:varchar(128);uniqueIndex:idx_order_user_idem" json:"-"`    // 幂等键
	Status          string     `gorm:"index;not null" json:"status"`                                  // 订单状态
	Currency        string     `gorm:"type:varchar(16);not null" json:"currency"`                     // 币种
	TotalAmount     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 订单总额
	CustomerName    string     `gorm:"default:''" json:"customer_name"`                               // 下单人姓名快照
	CustomerEmail   string     `gorm:"default:''" json:"customer_email"`                              // 下单人邮箱快照
	ShippingAddress Address    `gorm:"serializer:json;type:text" json:"shipping_address"`             // 收货地址快照
	BillingAddress  Address    `gorm:"serializer:json;type:text" json:"billing_address"`              // 账单地址快照
	DeliveredAt     *time.Time `gorm:"index" json:"delivered_at,omitempty"`                           // 送达时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`                                       // 更新时间

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`    // 订单项
	Delivery *Delivery   `gorm:"foreignKey:OrderID" json:"delivery,omitempty"` // 交付记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
