package admin

import (
	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateProductRequest 发布商品请求
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Material      string          `json:"material"`
	Color         string          `json:"color"`
	Category      string          `json:"category"`
	MainCategory  string          `json:"main_category"`
	ImageURL      string          `json:"image_url"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Stock         int             `json:"stock"`
}

// UpdateStockRequest 库存调整请求（字段为空表示不修改）
type UpdateStockRequest struct {
	Stock     *int `json:"stock"`
	HeldStock *int `json:"held_stock"`
}

// UpdatePriceRequest 调价请求
type UpdatePriceRequest struct {
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
}

// CreateProduct 发布商品
func (h *Handler) CreateProduct(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.CatalogService.CreateProduct(c.Request.Context(), actor, service.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Material:      req.Material,
		Color:         req.Color,
		Category:      req.Category,
		MainCategory:  req.MainCategory,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
	})
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateStock 调整库存
func (h *Handler) UpdateStock(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.CatalogService.UpdateStock(c.Request.Context(), actor, productID, service.UpdateStockInput{
		Stock:     req.Stock,
		HeldStock: req.HeldStock,
	})
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdatePrice 调整售价，已下单订单的金额不受影响
func (h *Handler) UpdatePrice(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.CatalogService.UpdatePrice(c.Request.Context(), actor, productID, req.Price, req.OriginalPrice)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}
