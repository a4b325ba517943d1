package public

import (
	"errors"
	"strings"

	"github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/i18n"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader 结账幂等键请求头
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutItemRequest 结账商品行
type CheckoutItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CheckoutRequest 结账请求，items 为空时使用服务端购物车
type CheckoutRequest struct {
	Items           []CheckoutItemRequest `json:"items"`
	ShippingAddress models.Address        `json:"shipping_address"`
	BillingAddress  *models.Address       `json:"billing_address"`
}

// CheckoutResponse 结账响应
type CheckoutResponse struct {
	Order    *models.Order `json:"order"`
	Replayed bool          `json:"replayed"`
}

// Checkout 提交订单
func (h *Handler) Checkout(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	lines := make([]service.CheckoutLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.CheckoutLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result, err := h.CheckoutService.Checkout(c.Request.Context(), actor, service.CheckoutInput{
		Lines:          lines,
		Shipping:       req.ShippingAddress,
		Billing:        req.BillingAddress,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
		Locale:         i18n.ResolveLocale(c),
	})
	if err != nil {
		var conflict *service.StockConflictError
		if errors.As(err, &conflict) {
			shared.RespondErrorWithData(c, response.CodeConflict, "error.stock_conflict", gin.H{
				"product_ids": conflict.ProductIDs,
			}, nil)
			return
		}
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	response.Success(c, CheckoutResponse{Order: result.Order, Replayed: result.Replayed})
}
