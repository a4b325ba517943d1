package queue

import (
	"encoding/json"

	"github.com/suhome/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskInvoiceEmail 发票邮件任务
	TaskInvoiceEmail = constants.TaskInvoiceEmail
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
)

// InvoiceEmailPayload 发票邮件任务载荷
type InvoiceEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Email   string `json:"email,omitempty"` // 为空时发送到下单邮箱
	Locale  string `json:"locale,omitempty"`
}

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Locale  string `json:"locale,omitempty"`
}

// NewInvoiceEmailTask 创建发票邮件任务
func NewInvoiceEmailTask(payload InvoiceEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceEmail, body), nil
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}
