package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/events"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/repository"

	"gorm.io/gorm"
)

const maxReviewContentLength = 2000

// ReviewService 评价服务（仅已送达商品可评价）
type ReviewService struct {
	commentRepo  repository.CommentRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	authorizer   Authorizer
	notifier     notifier
	queryTimeout time.Duration
}

// NewReviewService 创建评价服务
func NewReviewService(commentRepo repository.CommentRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, authorizer Authorizer, publisher events.Publisher, queryTimeout time.Duration) *ReviewService {
	return &ReviewService{
		commentRepo:  commentRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		authorizer:   authorizer,
		notifier:     notifier{publisher: publisher},
		queryTimeout: queryTimeout,
	}
}

// CanReview 用户是否有包含该商品且已送达的订单
func (s *ReviewService) CanReview(ctx context.Context, userID, productID uint) (bool, error) {
	if userID == 0 || productID == 0 {
		return false, nil
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	ok, err := s.orderRepo.WithContext(ctx).HasDeliveredProduct(userID, productID, constants.OrderStatusDelivered)
	if err != nil {
		return false, persistenceError(err)
	}
	return ok, nil
}

// SubmitReview 提交或覆盖评价，并在同一事务内重算商品评分
func (s *ReviewService) SubmitReview(ctx context.Context, actor Actor, productID uint, rating int, content string) (*models.Comment, error) {
	if err := authorize(s.authorizer, actor, authz.OpReviewSubmit); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > maxReviewContentLength {
		return nil, ErrInvalidReview
	}
	if productID == 0 {
		return nil, ErrProductNotFound
	}

	eligible, err := s.CanReview(ctx, actor.UserID, productID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrForbidden
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	product, err := s.productRepo.WithContext(ctx).GetByID(productID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	var average float64
	var count int
	err = s.productRepo.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentRepo := s.commentRepo.WithTx(tx)
		if err := commentRepo.Upsert(&models.Comment{
			UserID:    actor.UserID,
			ProductID: productID,
			Rating:    rating,
			Content:   content,
		}); err != nil {
			return err
		}
		var err error
		average, count, err = commentRepo.RatingSummary(productID)
		if err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).UpdateRating(productID, average, count)
	})
	if err != nil {
		return nil, persistenceError(err)
	}

	comment, err := s.commentRepo.WithContext(ctx).GetByUserAndProduct(actor.UserID, productID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if comment == nil {
		return nil, persistenceError(gorm.ErrRecordNotFound)
	}
	logger.Infow("review_submitted", "product_id", productID, "user_id", actor.UserID, "rating", rating)
	s.notifier.publish(events.Event{
		Type:      constants.EventReviewSubmitted,
		UserID:    actor.UserID,
		ProductID: productID,
		Payload: map[string]interface{}{
			"rating":         rating,
			"average_rating": average,
			"rating_count":   count,
		},
	})
	return comment, nil
}

// ListByProduct 商品评价列表
func (s *ReviewService) ListByProduct(ctx context.Context, productID uint, page, pageSize int) ([]models.Comment, int64, error) {
	if productID == 0 {
		return nil, 0, ErrProductNotFound
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	page, pageSize = normalizePage(page, pageSize)
	comments, total, err := s.commentRepo.WithContext(ctx).ListByProduct(repository.CommentListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
	})
	if err != nil {
		return nil, 0, persistenceError(err)
	}
	return comments, total, nil
}
