package repository

import (
	"context"
	"errors"

	"github.com/suhome/internal/models"

	"gorm.io/gorm"
)

// DeliveryRepository 交付记录数据访问接口
type DeliveryRepository interface {
	Create(delivery *models.Delivery) error
	GetByOrderID(orderID uint) (*models.Delivery, error)
	UpdateByOrderID(orderID uint, updates map[string]interface{}) (int64, error)
	WithTx(tx *gorm.DB) DeliveryRepository
	WithContext(ctx context.Context) DeliveryRepository
}

// GormDeliveryRepository GORM 实现
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建交付仓库
func NewDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryRepository) WithTx(tx *gorm.DB) DeliveryRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryRepository{db: tx}
}

// WithContext 绑定上下文
func (r *GormDeliveryRepository) WithContext(ctx context.Context) DeliveryRepository {
	if ctx == nil {
		return r
	}
	return &GormDeliveryRepository{db: r.db.WithContext(ctx)}
}

// Create 创建交付记录
func (r *GormDeliveryRepository) Create(delivery *models.Delivery) error {
	return r.db.Create(delivery).Error
}

// GetByOrderID 根据订单获取交付记录
func (r *GormDeliveryRepository) GetByOrderID(orderID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.db.Where("order_id = ?", orderID).First(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

// UpdateByOrderID 更新交付记录
func (r *GormDeliveryRepository) UpdateByOrderID(orderID uint, updates map[string]interface{}) (int64, error) {
	if orderID == 0 || len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Delivery{}).Where("order_id = ?", orderID).Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
