package repository

import (
	"context"
	"errors"

	"github.com/suhome/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository 评价数据访问接口
type CommentRepository interface {
	ListByProduct(filter CommentListFilter) ([]models.Comment, int64, error)
	GetByUserAndProduct(userID, productID uint) (*models.Comment, error)
	Upsert(comment *models.Comment) error
	RatingSummary(productID uint) (float64, int, error)
	WithTx(tx *gorm.DB) CommentRepository
	WithContext(ctx context.Context) CommentRepository
}

// GormCommentRepository GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评价仓库
func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommentRepository) WithTx(tx *gorm.DB) CommentRepository {
	if tx == nil {
		return r
	}
	return &GormCommentRepository{db: tx}
}

// WithContext 绑定上下文
func (r *GormCommentRepository) WithContext(ctx context.Context) CommentRepository {
	if ctx == nil {
		return r
	}
	return &GormCommentRepository{db: r.db.WithContext(ctx)}
}

// ListByProduct 商品评价列表
func (r *GormCommentRepository) ListByProduct(filter CommentListFilter) ([]models.Comment, int64, error) {
	query := r.db.Model(&models.Comment{}).Where("product_id = ?", filter.ProductID)
	return findPage[models.Comment](query, filter.Page, filter.PageSize, func(db *gorm.DB) *gorm.DB {
		return db.Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).Order("updated_at desc, id desc")
	})
}

// GetByUserAndProduct 获取用户对商品的评价
func (r *GormCommentRepository) GetByUserAndProduct(userID, productID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Upsert 按 (user_id, product_id) 新增或覆盖评价
func (r *GormCommentRepository) Upsert(comment *models.Comment) error {
	if comment == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "content", "updated_at"}),
	}).Create(comment).Error
}

// RatingSummary 商品评分统计（平均分、数量）
func (r *GormCommentRepository) RatingSummary(productID uint) (float64, int, error) {
	var row struct {
		Average float64
		Total   int
	}
	err := r.db.Model(&models.Comment{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average, row.Total, nil
}
