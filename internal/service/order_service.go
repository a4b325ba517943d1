package service

import (
	"context"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/repository"
)

// OrderService 订单查询服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	authorizer   Authorizer
	queryTimeout time.Duration
}

// NewOrderService 创建订单查询服务
func NewOrderService(orderRepo repository.OrderRepository, authorizer Authorizer, queryTimeout time.Duration) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		authorizer:   authorizer,
		queryTimeout: queryTimeout,
	}
}

// ListHistoryInput 订单历史查询
type ListHistoryInput struct {
	UserID   uint // 0 表示当前用户
	Status   string
	Page     int
	PageSize int
}

// ListHistory 订单历史，非本人需要 order:read_all
func (s *OrderService) ListHistory(ctx context.Context, actor Actor, input ListHistoryInput) ([]models.Order, int64, error) {
	if actor.IsAnonymous() {
		return nil, 0, ErrUnauthorized
	}
	userID := input.UserID
	if userID == 0 {
		userID = actor.UserID
	}
	if userID != actor.UserID && !can(s.authorizer, actor, authz.OpOrderReadAll) {
		return nil, 0, ErrForbidden
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	page, pageSize := normalizePage(input.Page, input.PageSize)
	orders, total, err := s.orderRepo.WithContext(ctx).ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   input.Status,
	})
	if err != nil {
		return nil, 0, persistenceError(err)
	}
	return orders, total, nil
}

// GetOrder 订单详情
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, orderID uint) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()
	return loadAccessibleOrder(ctx, s.orderRepo, s.authorizer, actor, orderID, authz.OpOrderReadAll)
}

// loadAccessibleOrder 加载订单并校验归属；非本人需要 readAll 权限
func loadAccessibleOrder(ctx context.Context, orderRepo repository.OrderRepository, authorizer Authorizer, actor Actor, orderID uint, readAll authz.Operation) (*models.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := orderRepo.WithContext(ctx).GetByID(orderID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != actor.UserID && !can(authorizer, actor, readAll) {
		return nil, ErrForbidden
	}
	return order, nil
}
