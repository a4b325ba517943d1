package repository

import (
	"context"

	"github.com/suhome/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 支付审计数据访问接口（只追加）
type PaymentRepository interface {
	Create(payment *models.Payment) error
	ListByOrderID(orderID uint) ([]models.Payment, error)
	WithContext(ctx context.Context) PaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithContext 绑定上下文
func (r *GormPaymentRepository) WithContext(ctx context.Context) PaymentRepository {
	if ctx == nil {
		return r
	}
	return &GormPaymentRepository{db: r.db.WithContext(ctx)}
}

// Create 追加支付记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// ListByOrderID 订单支付记录（按时间正序）
func (r *GormPaymentRepository) ListByOrderID(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
