package admin

import (
	"github.com/suhome/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UpdateDeliveryRequest 承运信息请求
type UpdateDeliveryRequest struct {
	Carrier    string `json:"carrier"`
	TrackingNo string `json:"tracking_no"`
}

// AdvanceOrderStatus 推进订单交付状态一步
func (h *Handler) AdvanceOrderStatus(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.DeliveryService.Advance(c.Request.Context(), orderID, actor)
	if err != nil {
		respondWithMappedError(c, err, deliveryErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// UpdateDelivery 更新承运商与运单号
func (h *Handler) UpdateDelivery(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.DeliveryService.UpdateCarrier(c.Request.Context(), orderID, actor, req.Carrier, req.TrackingNo)
	if err != nil {
		respondWithMappedError(c, err, deliveryErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}
