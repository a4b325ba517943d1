package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// 校验类错误统一包装 ErrValidation
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidQuantity       = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	ErrInvalidRating         = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidAddress        = fmt.Errorf("%w: shipping address is incomplete", ErrValidation)
	ErrInvalidProduct        = fmt.Errorf("%w: product data is invalid", ErrValidation)
	ErrInvalidPayment        = fmt.Errorf("%w: payment data is invalid", ErrValidation)
	ErrInvalidEmail          = fmt.Errorf("%w: email is invalid", ErrValidation)
	ErrPasswordTooShort      = fmt.Errorf("%w: password is too short", ErrValidation)
	ErrGuestTokenMissing     = fmt.Errorf("%w: guest token is required", ErrValidation)
	ErrInvalidIdempotencyKey = fmt.Errorf("%w: idempotency key is invalid", ErrValidation)
	ErrInvalidDelivery       = fmt.Errorf("%w: carrier or tracking number is required", ErrValidation)
	ErrInvalidReview         = fmt.Errorf("%w: review content is too long", ErrValidation)
)

// 未找到类错误统一包装 ErrNotFound
var ErrNotFound = errors.New("not found")

var (
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("%w: order", ErrNotFound)
)

var (
	ErrUnauthorized        = errors.New("operation not permitted for role")
	ErrForbidden           = errors.New("forbidden")
	ErrStockConflict       = errors.New("stock conflict")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrPersistenceFailure  = errors.New("persistence failure")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrMailUnavailable     = errors.New("mail service unavailable")
	ErrCheckoutInProgress  = errors.New("checkout already in progress")
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailExists         = errors.New("email already registered")
)

var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// StockConflictError 下单时库存不足的商品集合
type StockConflictError struct {
	ProductIDs []uint
}

// NewStockConflictError 创建库存冲突错误（去重并排序）
func NewStockConflictError(ids []uint) *StockConflictError {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return &StockConflictError{ProductIDs: result}
}

func (e *StockConflictError) Error() string {
	parts := make([]string, 0, len(e.ProductIDs))
	for _, id := range e.ProductIDs {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return ErrStockConflict.Error() + ": products [" + strings.Join(parts, ",") + "]"
}

func (e *StockConflictError) Unwrap() error {
	return ErrStockConflict
}

// persistenceError 包装存储层错误，保留原始错误链
func persistenceError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
}
