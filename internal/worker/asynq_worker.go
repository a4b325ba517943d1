package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/provider"
	"github.com/suhome/internal/queue"
	"github.com/suhome/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者，只发送通知，不修改订单状态
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskInvoiceEmail, c.handleInvoiceEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleInvoiceEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_invoice_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.InvoiceEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_invoice_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_invoice_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.InvoiceService == nil {
		logger.Warnw("worker_invoice_email_skip_invoice_service_nil", "order_id", payload.OrderID)
		return nil
	}
	result, err := c.InvoiceService.SendForOrder(ctx, payload.OrderID, payload.Email, payload.Locale)
	if err != nil {
		return classifySendError("worker_invoice_email", payload.OrderID, err)
	}
	logger.Debugw("worker_invoice_email_done", "order_id", payload.OrderID, "result", result)
	return nil
}

func (c *Consumer) handleOrderStatusEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.WithContext(ctx).GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	receiverEmail := strings.TrimSpace(order.CustomerEmail)
	if receiverEmail == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_status_email_skip_email_service_nil", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderStatusEmailInput{
		OrderNo:      order.OrderNo,
		CustomerName: order.CustomerName,
		Status:       status,
		Amount:       order.TotalAmount,
		Currency:     order.Currency,
	}
	if err := c.EmailService.SendOrderStatusEmail(ctx, receiverEmail, input, payload.Locale); err != nil {
		return classifySendError("worker_order_status_email", order.ID, err)
	}
	return nil
}

// classifySendError 区分可重试与不可重试的发送错误
func classifySendError(prefix string, orderID uint, err error) error {
	switch {
	case errors.Is(err, service.ErrEmailServiceDisabled), errors.Is(err, service.ErrEmailServiceNotConfigured):
		logger.Debugw(prefix+"_skip_mail_disabled", "order_id", orderID, "reason", err.Error())
		return nil
	case errors.Is(err, service.ErrOrderNotFound):
		logger.Debugw(prefix+"_skip_order_not_found", "order_id", orderID)
		return nil
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrEmailRecipientRejected):
		logger.Warnw(prefix+"_skip_invalid_receiver", "order_id", orderID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	default:
		logger.Warnw(prefix+"_send_failed", "order_id", orderID, "error", err)
		return err
	}
}
