package service

import (
	"context"
	"strings"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/repository"

	"github.com/shopspring/decimal"
)

var allowedPaymentMethods = map[string]bool{
	constants.PaymentMethodCard:           true,
	constants.PaymentMethodBankTransfer:   true,
	constants.PaymentMethodCashOnDelivery: true,
}

var allowedPaymentStatuses = map[string]bool{
	constants.PaymentStatusInitiated: true,
	constants.PaymentStatusSuccess:   true,
	constants.PaymentStatusFailed:    true,
}

// PaymentService 支付审计服务（只记录，不影响订单状态）
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	orderRepo    repository.OrderRepository
	authorizer   Authorizer
	queryTimeout time.Duration
}

// NewPaymentService 创建支付审计服务
func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository, authorizer Authorizer, queryTimeout time.Duration) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		authorizer:   authorizer,
		queryTimeout: queryTimeout,
	}
}

// RecordPaymentInput 支付记录输入
type RecordPaymentInput struct {
	Amount         *decimal.Decimal // 为空时取订单总额
	Method         string
	Status         string
	TransactionRef string
	PaidAt         *time.Time
}

// RecordPayment 追加一条支付记录
func (s *PaymentService) RecordPayment(ctx context.Context, actor Actor, orderID uint, input RecordPaymentInput) (*models.Payment, error) {
	if err := authorize(s.authorizer, actor, authz.OpPaymentRecord); err != nil {
		return nil, err
	}
	method := strings.ToLower(strings.TrimSpace(input.Method))
	if !allowedPaymentMethods[method] {
		return nil, ErrInvalidPayment
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = constants.PaymentStatusInitiated
	}
	if !allowedPaymentStatuses[status] {
		return nil, ErrInvalidPayment
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	order, err := loadAccessibleOrder(ctx, s.orderRepo, s.authorizer, actor, orderID, authz.OpOrderReadAll)
	if err != nil {
		return nil, err
	}

	amount := order.TotalAmount
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, ErrInvalidPayment
		}
		amount = models.NewMoneyFromDecimal(*input.Amount)
	}
	paidAt := input.PaidAt
	if paidAt == nil && status == constants.PaymentStatusSuccess {
		now := time.Now()
		paidAt = &now
	}

	payment := &models.Payment{
		OrderID:        order.ID,
		UserID:         order.UserID,
		Amount:         amount,
		Currency:       order.Currency,
		Method:         method,
		Status:         status,
		TransactionRef: strings.TrimSpace(input.TransactionRef),
		RecordedBy:     actor.UserID,
		PaidAt:         paidAt,
	}
	if err := s.paymentRepo.WithContext(ctx).Create(payment); err != nil {
		return nil, persistenceError(err)
	}
	logger.Infow("payment_recorded",
		"payment_id", payment.ID,
		"order_id", order.ID,
		"status", status,
		"recorded_by", actor.UserID,
	)
	return payment, nil
}

// ListByOrder 订单支付记录
func (s *PaymentService) ListByOrder(ctx context.Context, actor Actor, orderID uint) ([]models.Payment, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	order, err := loadAccessibleOrder(ctx, s.orderRepo, s.authorizer, actor, orderID, authz.OpPaymentReadAll)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.WithContext(ctx).ListByOrderID(order.ID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return payments, nil
}
