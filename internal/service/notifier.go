package service

import (
	"context"
	"time"

	"github.com/suhome/internal/events"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/queue"

	"github.com/hibiken/asynq"
)

// TaskQueue 异步任务投递
type TaskQueue interface {
	EnqueueInvoiceEmail(payload queue.InvoiceEmailPayload, opts ...asynq.Option) error
	EnqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload, opts ...asynq.Option) error
}

const sideEffectTimeout = 5 * time.Second

// notifier 事务提交后的事件与通知，失败只记录日志
type notifier struct {
	publisher events.Publisher
	queue     TaskQueue
}

func (n notifier) publish(evt events.Event) {
	if n.publisher == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	// 与请求生命周期解耦，客户端断开不影响已提交的事件
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	if err := n.publisher.Publish(ctx, evt); err != nil {
		logger.Warnw("domain_event_publish_failed",
			"event_type", evt.Type,
			"order_id", evt.OrderID,
			"product_id", evt.ProductID,
			"error", err,
		)
	}
}

func (n notifier) enqueueInvoiceEmail(payload queue.InvoiceEmailPayload) {
	if n.queue == nil {
		return
	}
	if err := n.queue.EnqueueInvoiceEmail(payload); err != nil {
		logger.Warnw("invoice_email_enqueue_failed", "order_id", payload.OrderID, "error", err)
	}
}

func (n notifier) enqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload) {
	if n.queue == nil {
		return
	}
	if err := n.queue.EnqueueOrderStatusEmail(payload); err != nil {
		logger.Warnw("order_status_email_enqueue_failed", "order_id", payload.OrderID, "status", payload.Status, "error", err)
	}
}
