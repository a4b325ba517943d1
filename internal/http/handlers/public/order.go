package public

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/i18n"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

// InvoiceEmailRequest 发票邮件请求，email 为空时发送到下单邮箱
type InvoiceEmailRequest struct {
	Email string `json:"email"`
}

// ListOrderHistory 订单历史（?user_id 查询他人需要 order:read_all）
func (h *Handler) ListOrderHistory(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
			return
		}
		userID = uint(parsed)
	}
	page, pageSize := shared.ParsePagination(c)

	orders, total, err := h.OrderService.ListHistory(c.Request.Context(), actor, service.ListHistoryInput{
		UserID:   userID,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// GetInvoice 下载发票 PDF，format=json 时返回发票数据
func (h *Handler) GetInvoice(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if strings.EqualFold(c.Query("format"), "json") {
		doc, err := h.InvoiceService.Render(c.Request.Context(), actor, orderID)
		if err != nil {
			respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "error.invoice_failed")
			return
		}
		response.Success(c, doc)
		return
	}

	content, doc, err := h.InvoiceService.RenderPDF(c.Request.Context(), actor, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "error.invoice_failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename()+`"`)
	c.Data(http.StatusOK, "application/pdf", content)
}

// EmailInvoice 发送发票邮件
func (h *Handler) EmailInvoice(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	// 请求体可省略；分块传输时 ContentLength 为 -1，需按实际内容判断
	var req InvoiceEmailRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	status, err := h.InvoiceService.EmailTo(c.Request.Context(), actor, orderID, req.Email, i18n.ResolveLocale(c))
	if err != nil {
		respondWithMappedError(c, err, invoiceEmailErrorRules, response.CodeInternal, "error.invoice_failed")
		return
	}
	response.Success(c, gin.H{"status": status})
}
