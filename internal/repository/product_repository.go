package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/suhome/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	UpdateFields(id uint, updates map[string]interface{}) (int64, error)
	DecrementStock(productID uint, quantity int) (int64, error)
	UpdateRating(productID uint, average float64, count int) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
	WithContext(ctx context.Context) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// WithContext 绑定上下文（超时/取消）
func (r *GormProductRepository) WithContext(ctx context.Context) ProductRepository {
	if ctx == nil {
		return r
	}
	return &GormProductRepository{db: r.db.WithContext(ctx)}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if mainCategory := strings.TrimSpace(filter.MainCategory); mainCategory != "" {
		query = query.Where("main_category = ?", mainCategory)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, count := buildLikeCondition(r.db, []string{"name", "description", "material", "color"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", count)...)
	}
	return findPage[models.Product](query, filter.Page, filter.PageSize, func(db *gorm.DB) *gorm.DB {
		switch filter.OrderBy {
		case "price_asc":
			return db.Order("price asc, id asc")
		case "price_desc":
			return db.Order("price desc, id asc")
		case "rating":
			return db.Order("average_rating desc, rating_count desc, id asc")
		default:
			return db.Order("id asc")
		}
	})
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// UpdateFields 按字段更新商品
func (r *GormProductRepository) UpdateFields(id uint, updates map[string]interface{}) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementStock 条件扣减库存，仅当可售库存足够时生效
// 返回 0 表示库存不足（调用方应视为冲突）
func (r *GormProductRepository) DecrementStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock - held_stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateRating 回写评分统计
func (r *GormProductRepository) UpdateRating(productID uint, average float64, count int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"average_rating": average,
		"rating_count":   count,
	}).Error
}
