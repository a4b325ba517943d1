package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/events"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/queue"
	"github.com/suhome/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxIdempotencyKeyLength = 128

// Locker 提交互斥锁
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error)
}

// CheckoutOptions 结账配置
type CheckoutOptions struct {
	Currency              string
	SubmitLockTTL         time.Duration
	SendInvoiceOnCheckout bool
	QueryTimeout          time.Duration
}

// CheckoutService 结账编排服务
type CheckoutService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	deliveryRepo repository.DeliveryRepository
	userRepo     repository.UserRepository
	authorizer   Authorizer
	locker       Locker
	notifier     notifier
	opts         CheckoutOptions
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	authorizer Authorizer,
	locker Locker,
	publisher events.Publisher,
	taskQueue TaskQueue,
	opts CheckoutOptions,
) *CheckoutService {
	if strings.TrimSpace(opts.Currency) == "" {
		opts.Currency = constants.DefaultCurrency
	}
	if opts.SubmitLockTTL <= 0 {
		opts.SubmitLockTTL = 15 * time.Second
	}
	return &CheckoutService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		authorizer:   authorizer,
		locker:       locker,
		notifier:     notifier{publisher: publisher, queue: taskQueue},
		opts:         opts,
	}
}

// CheckoutLine 下单行
type CheckoutLine struct {
	ProductID uint
	Quantity  int
}

// CheckoutInput 结账输入，Lines 为空时使用服务端购物车
type CheckoutInput struct {
	Lines          []CheckoutLine
	Shipping       models.Address
	Billing        *models.Address
	IdempotencyKey string
	Locale         string
}

// CheckoutResult 结账结果
type CheckoutResult struct {
	Order    *models.Order
	Replayed bool // 幂等键命中，返回既有订单
}

// Checkout 原子下单：扣减库存、写入订单/订单项/交付记录、清空购物车
// 返回错误时不会产生任何订单
func (s *CheckoutService) Checkout(ctx context.Context, actor Actor, input CheckoutInput) (*CheckoutResult, error) {
	if err := authorize(s.authorizer, actor, authz.OpOrderCheckout); err != nil {
		return nil, err
	}
	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return nil, ErrInvalidIdempotencyKey
	}

	ctx, cancel := withTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	if idempotencyKey != "" {
		existing, err := s.orderRepo.WithContext(ctx).GetByIdempotencyKey(actor.UserID, idempotencyKey)
		if err != nil {
			return nil, persistenceError(err)
		}
		if existing != nil {
			return &CheckoutResult{Order: existing, Replayed: true}, nil
		}
	}

	cartKey := userCartKey(actor.UserID)
	fromCart := len(input.Lines) == 0
	lines := input.Lines
	if fromCart {
		cartItems, err := s.cartRepo.WithContext(ctx).ListByOwner(cartKey)
		if err != nil {
			return nil, persistenceError(err)
		}
		lines = make([]CheckoutLine, 0, len(cartItems))
		var skipped []uint
		for _, item := range cartItems {
			// 与购物车视图一致，不可见的行随下单一并清空
			if !isPurchasableCartItem(item) {
				skipped = append(skipped, item.ProductID)
				continue
			}
			lines = append(lines, CheckoutLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		if len(skipped) > 0 {
			logger.Infow("checkout_skipped_unavailable_cart_items", "user_id", actor.UserID, "product_ids", skipped)
		}
	}
	lines, err := mergeCheckoutLines(lines)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	shipping, err := normalizeAddress(input.Shipping)
	if err != nil {
		return nil, err
	}
	billing := shipping
	if input.Billing != nil && !input.Billing.IsZero() {
		if billing, err = normalizeAddress(*input.Billing); err != nil {
			return nil, err
		}
	}

	release, acquired, lockErr := s.acquireSubmitLock(ctx, actor.UserID)
	if lockErr != nil {
		// 锁不可用时依赖数据库幂等约束兜底
		logger.Warnw("checkout_submit_lock_failed", "user_id", actor.UserID, "error", lockErr)
	} else if !acquired {
		return nil, ErrCheckoutInProgress
	}
	defer release()

	customerName, customerEmail := s.customerSnapshot(ctx, actor.UserID, shipping)

	var order *models.Order
	err = s.orderRepo.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		placed, err := s.placeOrder(tx, actor.UserID, lines, shipping, billing, customerName, customerEmail, idempotencyKey)
		if err != nil {
			return err
		}
		cartRepo := s.cartRepo.WithTx(tx)
		if fromCart {
			if err := cartRepo.ClearByOwner(cartKey); err != nil {
				return err
			}
		} else {
			for _, line := range lines {
				if err := cartRepo.DeleteByOwnerAndProduct(cartKey, line.ProductID); err != nil {
					return err
				}
			}
		}
		order = placed
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStockConflict) || errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		if idempotencyKey != "" {
			// 并发的同键请求可能已提交
			existing, lookupErr := s.orderRepo.WithContext(ctx).GetByIdempotencyKey(actor.UserID, idempotencyKey)
			if lookupErr == nil && existing != nil {
				return &CheckoutResult{Order: existing, Replayed: true}, nil
			}
		}
		logger.Errorw("checkout_transaction_failed", "user_id", actor.UserID, "error", err)
		return nil, persistenceError(err)
	}

	logger.Infow("order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total_amount", order.TotalAmount.String(),
		"lines", len(order.Items),
	)
	s.afterPlaced(order, input.Locale)
	return &CheckoutResult{Order: order}, nil
}

// placeOrder 在事务内完成扣减与写入
func (s *CheckoutService) placeOrder(tx *gorm.DB, userID uint, lines []CheckoutLine, shipping, billing models.Address, customerName, customerEmail, idempotencyKey string) (*models.Order, error) {
	productRepo := s.productRepo.WithTx(tx)
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok || !product.IsActive {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, line.ProductID)
		}
	}

	// 逐行尝试扣减，收集全部冲突商品
	conflicts := make([]uint, 0)
	for _, line := range lines {
		affected, err := productRepo.DecrementStock(line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			conflicts = append(conflicts, line.ProductID)
		}
	}
	if len(conflicts) > 0 {
		return nil, NewStockConflictError(conflicts)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product := byID[line.ProductID]
		lineTotal := product.Price.MulQuantity(line.Quantity)
		total = total.Add(lineTotal.Decimal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			TotalPrice:  lineTotal,
		})
	}

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          userID,
		Status:          constants.OrderStatusProcessing,
		Currency:        s.opts.Currency,
		TotalAmount:     models.NewMoneyFromDecimal(total),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		ShippingAddress: shipping,
		BillingAddress:  billing,
	}
	if idempotencyKey != "" {
		key := idempotencyKey
		order.IdempotencyKey = &key
	}
	if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
		return nil, err
	}

	delivery := &models.Delivery{
		OrderID: order.ID,
		Status:  constants.DeliveryStatusProcessing,
	}
	if err := s.deliveryRepo.WithTx(tx).Create(delivery); err != nil {
		return nil, err
	}
	order.Delivery = delivery
	return order, nil
}

func (s *CheckoutService) acquireSubmitLock(ctx context.Context, userID uint) (func(), bool, error) {
	noop := func() {}
	if s.locker == nil {
		return noop, true, nil
	}
	release, ok, err := s.locker.Acquire(ctx, fmt.Sprintf("checkout:user:%d", userID), s.opts.SubmitLockTTL)
	if release == nil {
		release = noop
	}
	return release, ok, err
}

func (s *CheckoutService) customerSnapshot(ctx context.Context, userID uint, shipping models.Address) (string, string) {
	name := shipping.Name
	if s.userRepo == nil {
		return name, ""
	}
	user, err := s.userRepo.WithContext(ctx).GetByID(userID)
	if err != nil || user == nil {
		if err != nil {
			logger.Warnw("checkout_customer_lookup_failed", "user_id", userID, "error", err)
		}
		return name, ""
	}
	if strings.TrimSpace(user.Name) != "" {
		name = strings.TrimSpace(user.Name)
	}
	return name, strings.TrimSpace(user.Email)
}

func (s *CheckoutService) afterPlaced(order *models.Order, locale string) {
	s.notifier.publish(events.Event{
		Type:    constants.EventOrderPlaced,
		OrderID: order.ID,
		UserID:  order.UserID,
		Payload: map[string]interface{}{
			"order_no":     order.OrderNo,
			"total_amount": order.TotalAmount.String(),
			"currency":     order.Currency,
			"items":        len(order.Items),
		},
		OccurredAt: order.CreatedAt,
	})
	if s.opts.SendInvoiceOnCheckout && order.CustomerEmail != "" {
		s.notifier.enqueueInvoiceEmail(queue.InvoiceEmailPayload{
			OrderID: order.ID,
			Locale:  locale,
		})
	}
}

// mergeCheckoutLines 合并重复商品行，保持首次出现的顺序
func mergeCheckoutLines(lines []CheckoutLine) ([]CheckoutLine, error) {
	merged := make([]CheckoutLine, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 {
			return nil, ErrProductNotFound
		}
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if pos, ok := index[line.ProductID]; ok {
			merged[pos].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

func normalizeAddress(address models.Address) (models.Address, error) {
	normalized := models.Address{
		Name:       strings.TrimSpace(address.Name),
		Phone:      strings.TrimSpace(address.Phone),
		Line1:      strings.TrimSpace(address.Line1),
		Line2:      strings.TrimSpace(address.Line2),
		City:       strings.TrimSpace(address.City),
		PostalCode: strings.TrimSpace(address.PostalCode),
		Country:    strings.TrimSpace(address.Country),
	}
	if normalized.Name == "" || normalized.Line1 == "" || normalized.City == "" || normalized.Country == "" {
		return models.Address{}, ErrInvalidAddress
	}
	return normalized, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("SU%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
