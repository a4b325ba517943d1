package service

import (
	"context"
	"strings"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogService 商品目录服务
type CatalogService struct {
	productRepo  repository.ProductRepository
	authorizer   Authorizer
	queryTimeout time.Duration
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(productRepo repository.ProductRepository, authorizer Authorizer, queryTimeout time.Duration) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		authorizer:   authorizer,
		queryTimeout: queryTimeout,
	}
}

// ProductView 商品视图（附带可售库存）
type ProductView struct {
	models.Product
	AvailableStock int  `json:"available_stock"`
	OnSale         bool `json:"on_sale"`
}

// NewProductView 构建商品视图
func NewProductView(product models.Product) ProductView {
	onSale := !product.OriginalPrice.IsZero() && product.OriginalPrice.GreaterThan(product.Price.Decimal)
	return ProductView{
		Product:        product,
		AvailableStock: product.AvailableStock(),
		OnSale:         onSale,
	}
}

// ListProductsInput 商品列表查询
type ListProductsInput struct {
	Page         int
	PageSize     int
	Category     string
	MainCategory string
	Search       string
	OrderBy      string
}

// ListProducts 上架商品列表
func (s *CatalogService) ListProducts(ctx context.Context, input ListProductsInput) ([]ProductView, int64, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	page, pageSize := normalizePage(input.Page, input.PageSize)
	products, total, err := s.productRepo.WithContext(ctx).List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Category:     input.Category,
		MainCategory: input.MainCategory,
		Search:       input.Search,
		OnlyActive:   true,
		OrderBy:      input.OrderBy,
	})
	if err != nil {
		logger.Warnw("catalog_list_failed", "error", err)
		return nil, 0, ErrCatalogUnavailable
	}
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, NewProductView(product))
	}
	return views, total, nil
}

// GetProduct 商品详情（下架商品视为不存在）
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductView, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	product, err := s.productRepo.WithContext(ctx).GetByID(id)
	if err != nil {
		logger.Warnw("catalog_get_failed", "product_id", id, "error", err)
		return nil, ErrCatalogUnavailable
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	view := NewProductView(*product)
	return &view, nil
}

// CreateProductInput 发布商品输入
type CreateProductInput struct {
	Name          string
	Description   string
	Material      string
	Color         string
	Category      string
	MainCategory  string
	ImageURL      string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Stock         int
}

// CreateProduct 发布商品（产品经理）
func (s *CatalogService) CreateProduct(ctx context.Context, actor Actor, input CreateProductInput) (*ProductView, error) {
	if err := authorize(s.authorizer, actor, authz.OpProductCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || !input.Price.IsPositive() || input.Stock < 0 || input.OriginalPrice.IsNegative() {
		return nil, ErrInvalidProduct
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	product := &models.Product{
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Material:      strings.TrimSpace(input.Material),
		Color:         strings.TrimSpace(input.Color),
		Category:      strings.TrimSpace(input.Category),
		MainCategory:  strings.TrimSpace(input.MainCategory),
		ImageURL:      strings.TrimSpace(input.ImageURL),
		Price:         models.NewMoneyFromDecimal(input.Price),
		OriginalPrice: models.NewMoneyFromDecimal(input.OriginalPrice),
		Stock:         input.Stock,
		IsActive:      true,
	}
	if err := s.productRepo.WithContext(ctx).Create(product); err != nil {
		return nil, persistenceError(err)
	}
	logger.Infow("product_created", "product_id", product.ID, "user_id", actor.UserID)
	view := NewProductView(*product)
	return &view, nil
}

// UpdateStockInput 库存调整输入（nil 表示不修改）
type UpdateStockInput struct {
	Stock     *int
	HeldStock *int
}

// UpdateStock 调整库存与预留量（产品经理）
func (s *CatalogService) UpdateStock(ctx context.Context, actor Actor, productID uint, input UpdateStockInput) (*ProductView, error) {
	if err := authorize(s.authorizer, actor, authz.OpProductStock); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidProduct
		}
		updates["stock"] = *input.Stock
	}
	if input.HeldStock != nil {
		if *input.HeldStock < 0 {
			return nil, ErrInvalidProduct
		}
		updates["held_stock"] = *input.HeldStock
	}
	if len(updates) == 0 {
		return nil, ErrInvalidProduct
	}
	return s.updateFields(ctx, actor, productID, updates)
}

// UpdatePrice 调整售价与划线价（销售经理）
func (s *CatalogService) UpdatePrice(ctx context.Context, actor Actor, productID uint, price, originalPrice decimal.Decimal) (*ProductView, error) {
	if err := authorize(s.authorizer, actor, authz.OpProductPrice); err != nil {
		return nil, err
	}
	if !price.IsPositive() || originalPrice.IsNegative() {
		return nil, ErrInvalidProduct
	}
	return s.updateFields(ctx, actor, productID, map[string]interface{}{
		"price":          models.NewMoneyFromDecimal(price),
		"original_price": models.NewMoneyFromDecimal(originalPrice),
	})
}

func (s *CatalogService) updateFields(ctx context.Context, actor Actor, productID uint, updates map[string]interface{}) (*ProductView, error) {
	if productID == 0 {
		return nil, ErrProductNotFound
	}
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	repo := s.productRepo.WithContext(ctx)
	affected, err := repo.UpdateFields(productID, updates)
	if err != nil {
		return nil, persistenceError(err)
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}
	product, err := repo.GetByID(productID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	logger.Infow("product_updated", "product_id", productID, "user_id", actor.UserID, "fields", len(updates))
	view := NewProductView(*product)
	return &view, nil
}
