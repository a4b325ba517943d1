package public

import (
	"github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表（仅上架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	products, total, err := h.CatalogService.ListProducts(c.Request.Context(), service.ListProductsInput{
		Page:         page,
		PageSize:     pageSize,
		Category:     c.Query("category"),
		MainCategory: c.Query("main_category"),
		Search:       c.Query("search"),
		OrderBy:      c.Query("order_by"),
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.CatalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}
