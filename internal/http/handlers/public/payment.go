package public

import (
	"time"

	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest 支付记录请求，amount 为空时取订单总额
type RecordPaymentRequest struct {
	Amount         *decimal.Decimal `json:"amount"`
	Method         string           `json:"method" binding:"required"`
	Status         string           `json:"status"`
	TransactionRef string           `json:"transaction_ref"`
	PaidAt         *time.Time       `json:"paid_at"`
}

// RecordPayment 记录订单支付
func (h *Handler) RecordPayment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.PaymentService.RecordPayment(c.Request.Context(), actor, orderID, service.RecordPaymentInput{
		Amount:         req.Amount,
		Method:         req.Method,
		Status:         req.Status,
		TransactionRef: req.TransactionRef,
		PaidAt:         req.PaidAt,
	})
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.payment_failed")
		return
	}
	response.Success(c, payment)
}

// ListPayments 订单支付记录
func (h *Handler) ListPayments(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.PaymentService.ListByOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, payments)
}
