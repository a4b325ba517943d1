package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/suhome/internal/config"
	"github.com/suhome/internal/logger"

	"github.com/segmentio/kafka-go"
)

// ErrPublisherClosed 发布器已关闭
var ErrPublisherClosed = errors.New("event publisher closed")

// Event 领域事件
type Event struct {
	Type       string      `json:"type"`
	OrderID    uint        `json:"order_id,omitempty"`
	UserID     uint        `json:"user_id,omitempty"`
	ProductID  uint        `json:"product_id,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Key 分区键：同一订单的事件保持顺序
func (e Event) Key() string {
	if e.OrderID > 0 {
		return "order-" + strconv.FormatUint(uint64(e.OrderID), 10)
	}
	if e.ProductID > 0 {
		return "product-" + strconv.FormatUint(uint64(e.ProductID), 10)
	}
	return e.Type
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NewPublisher 按配置创建发布器，未启用时返回空实现
func NewPublisher(cfg *config.EventsConfig) Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 || strings.TrimSpace(cfg.Topic) == "" {
		return NopPublisher{}
	}
	return newKafkaPublisher(cfg)
}

// NopPublisher 空实现
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(ctx context.Context, evt Event) error { return nil }

// Close 无操作
func (NopPublisher) Close() error { return nil }

type kafkaPublisher struct {
	writer  *kafka.Writer
	timeout time.Duration
	closed  atomic.Bool
}

func newKafkaPublisher(cfg *config.EventsConfig) *kafkaPublisher {
	timeout := time.Duration(cfg.WriteTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        strings.TrimSpace(cfg.Topic),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  attempts,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: timeout,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Warnw("kafka_writer_error", "detail", fmt.Sprintf(msg, args...))
		}),
	}
	return &kafkaPublisher{writer: writer, timeout: timeout}
}

// Publish 同步写入，受写超时约束
func (p *kafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	message, err := buildMessage(evt)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, message); err != nil {
		return fmt.Errorf("publish %s failed: %w", evt.Type, err)
	}
	return nil
}

// Close 关闭 writer
func (p *kafkaPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func buildMessage(evt Event) (kafka.Message, error) {
	if strings.TrimSpace(evt.Type) == "" {
		return kafka.Message{}, errors.New("event type is required")
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(evt.Key()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
		Time: evt.OccurredAt,
	}, nil
}
