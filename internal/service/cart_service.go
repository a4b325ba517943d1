package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService 购物车服务（服务端持久化）
type CartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	queryTimeout time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, queryTimeout time.Duration) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		queryTimeout: queryTimeout,
	}
}

// CartOwner 购物车归属（已登录用户优先）
type CartOwner struct {
	UserID     uint
	GuestToken string
}

// Key 归属键：user:<id> 或 guest:<token>
func (o CartOwner) Key() (string, error) {
	if o.UserID != 0 {
		return userCartKey(o.UserID), nil
	}
	token := strings.TrimSpace(o.GuestToken)
	if token == "" {
		return "", ErrGuestTokenMissing
	}
	parsed, err := uuid.Parse(token)
	if err != nil {
		return "", ErrGuestTokenMissing
	}
	return constants.CartOwnerGuestPrefix + parsed.String(), nil
}

func userCartKey(userID uint) string {
	return constants.CartOwnerUserPrefix + strconv.FormatUint(uint64(userID), 10)
}

// CartLine 购物车行
type CartLine struct {
	ProductID      uint         `json:"product_id"`
	Name           string       `json:"name"`
	ImageURL       string       `json:"image_url"`
	UnitPrice      models.Money `json:"unit_price"`
	Quantity       int          `json:"quantity"`
	LineTotal      models.Money `json:"line_total"`
	AvailableStock int          `json:"available_stock"`
}

// CartView 购物车视图
type CartView struct {
	Lines     []CartLine   `json:"lines"`
	Subtotal  models.Money `json:"subtotal"`
	ItemCount int          `json:"item_count"`
}

// GetCart 获取购物车（已删除或下架商品不计入）
func (s *CartService) GetCart(ctx context.Context, owner CartOwner) (*CartView, error) {
	key, err := owner.Key()
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.loadCart(ctx, key)
}

// AddItem 加入购物车，累计数量不可超过可售库存
func (s *CartService) AddItem(ctx context.Context, owner CartOwner, productID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	key, err := owner.Key()
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	product, err := s.loadPurchasableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	cartRepo := s.cartRepo.WithContext(ctx)
	existing, err := cartRepo.GetByOwnerAndProduct(key, productID)
	if err != nil {
		return nil, persistenceError(err)
	}
	total := quantity
	if existing != nil {
		total += existing.Quantity
	}
	if total > product.AvailableStock() {
		return nil, ErrInsufficientStock
	}
	if err := cartRepo.Upsert(&models.CartItem{OwnerKey: key, ProductID: productID, Quantity: total}); err != nil {
		return nil, persistenceError(err)
	}
	return s.loadCart(ctx, key)
}

// SetQuantity 设置数量，0 表示移除
func (s *CartService) SetQuantity(ctx context.Context, owner CartOwner, productID uint, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, owner, productID)
	}
	key, err := owner.Key()
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	product, err := s.loadPurchasableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.AvailableStock() {
		return nil, ErrInsufficientStock
	}
	if err := s.cartRepo.WithContext(ctx).Upsert(&models.CartItem{OwnerKey: key, ProductID: productID, Quantity: quantity}); err != nil {
		return nil, persistenceError(err)
	}
	return s.loadCart(ctx, key)
}

// RemoveItem 移除购物车行
func (s *CartService) RemoveItem(ctx context.Context, owner CartOwner, productID uint) (*CartView, error) {
	key, err := owner.Key()
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.cartRepo.WithContext(ctx).DeleteByOwnerAndProduct(key, productID); err != nil {
		return nil, persistenceError(err)
	}
	return s.loadCart(ctx, key)
}

// Merge 登录后合并游客购物车：按商品累加数量，不重新校验库存
func (s *CartService) Merge(ctx context.Context, guestToken string, userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	guestKey, err := CartOwner{GuestToken: guestToken}.Key()
	if err != nil {
		return nil, err
	}
	userKey := userCartKey(userID)

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	guestItems, err := s.cartRepo.WithContext(ctx).ListByOwner(guestKey)
	if err != nil {
		return nil, persistenceError(err)
	}
	if len(guestItems) == 0 {
		return s.loadCart(ctx, userKey)
	}

	err = s.productRepo.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		for _, item := range guestItems {
			quantity := item.Quantity
			existing, err := cartRepo.GetByOwnerAndProduct(userKey, item.ProductID)
			if err != nil {
				return err
			}
			if existing != nil {
				quantity += existing.Quantity
			}
			if err := cartRepo.Upsert(&models.CartItem{OwnerKey: userKey, ProductID: item.ProductID, Quantity: quantity}); err != nil {
				return err
			}
		}
		return cartRepo.ClearByOwner(guestKey)
	})
	if err != nil {
		return nil, persistenceError(err)
	}
	logger.Infow("cart_merged", "user_id", userID, "lines", len(guestItems))
	return s.loadCart(ctx, userKey)
}

// PurgeStaleGuestCarts 清理超过 maxAge 未更新的游客购物车
func (s *CartService) PurgeStaleGuestCarts(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	removed, err := s.cartRepo.WithContext(ctx).PurgeGuestItemsBefore(time.Now().Add(-maxAge))
	if err != nil {
		return 0, persistenceError(err)
	}
	return removed, nil
}

func (s *CartService) loadPurchasableProduct(ctx context.Context, productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.WithContext(ctx).GetByID(productID)
	if err != nil {
		return nil, ErrCatalogUnavailable
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CartService) loadCart(ctx context.Context, key string) (*CartView, error) {
	items, err := s.cartRepo.WithContext(ctx).ListByOwner(key)
	if err != nil {
		return nil, persistenceError(err)
	}
	return buildCartView(items), nil
}

// isPurchasableCartItem 商品已下架或删除的购物车项不展示也不参与结账
func isPurchasableCartItem(item models.CartItem) bool {
	return item.Product != nil && item.Product.IsActive
}

func buildCartView(items []models.CartItem) *CartView {
	view := &CartView{Lines: make([]CartLine, 0, len(items))}
	subtotal := decimal.Zero
	for _, item := range items {
		if !isPurchasableCartItem(item) {
			continue
		}
		lineTotal := item.Product.Price.MulQuantity(item.Quantity)
		view.Lines = append(view.Lines, CartLine{
			ProductID:      item.ProductID,
			Name:           item.Product.Name,
			ImageURL:       item.Product.ImageURL,
			UnitPrice:      item.Product.Price,
			Quantity:       item.Quantity,
			LineTotal:      lineTotal,
			AvailableStock: item.Product.AvailableStock(),
		})
		subtotal = subtotal.Add(lineTotal.Decimal)
		view.ItemCount += item.Quantity
	}
	view.Subtotal = models.NewMoneyFromDecimal(subtotal)
	return view
}
