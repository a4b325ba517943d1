package repository

import (
	"context"
	"errors"
	"time"

	"github.com/suhome/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByOwner(ownerKey string) ([]models.CartItem, error)
	GetByOwnerAndProduct(ownerKey string, productID uint) (*models.CartItem, error)
	Upsert(item *models.CartItem) error
	DeleteByOwnerAndProduct(ownerKey string, productID uint) error
	ClearByOwner(ownerKey string) error
	PurgeGuestItemsBefore(cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
	WithContext(ctx context.Context) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// WithContext 绑定上下文
func (r *GormCartRepository) WithContext(ctx context.Context) CartRepository {
	if ctx == nil {
		return r
	}
	return &GormCartRepository{db: r.db.WithContext(ctx)}
}

// ListByOwner 获取购物车项
func (r *GormCartRepository) ListByOwner(ownerKey string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("owner_key = ?", ownerKey).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByOwnerAndProduct 获取单个购物车项
func (r *GormCartRepository) GetByOwnerAndProduct(ownerKey string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("owner_key = ? AND product_id = ?", ownerKey, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Upsert 添加或更新购物车项（数量为最终值）
func (r *GormCartRepository) Upsert(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	var existing models.CartItem
	err := r.db.Where("owner_key = ? AND product_id = ?", item.OwnerKey, item.ProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(item).Error
	}
	if err != nil {
		return err
	}
	item.ID = existing.ID
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"quantity":   item.Quantity,
		"updated_at": time.Now(),
	}).Error
}

// DeleteByOwnerAndProduct 删除购物车项
func (r *GormCartRepository) DeleteByOwnerAndProduct(ownerKey string, productID uint) error {
	return r.db.Where("owner_key = ? AND product_id = ?", ownerKey, productID).Delete(&models.CartItem{}).Error
}

// ClearByOwner 清空购物车
func (r *GormCartRepository) ClearByOwner(ownerKey string) error {
	return r.db.Where("owner_key = ?", ownerKey).Delete(&models.CartItem{}).Error
}

// PurgeGuestItemsBefore 清理长时间未更新的游客购物车项
func (r *GormCartRepository) PurgeGuestItemsBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("owner_key LIKE ? AND updated_at < ?", "guest:%", cutoff).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
