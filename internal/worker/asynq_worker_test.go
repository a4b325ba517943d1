package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/suhome/internal/config"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/invoice"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/provider"
	"github.com/suhome/internal/queue"
	"github.com/suhome/internal/repository"
	"github.com/suhome/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type captureMailer struct {
	err  error
	sent []service.MailMessage
}

func (m *captureMailer) Send(ctx context.Context, msg service.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func setupConsumer(t *testing.T, mailer service.Mailer) (*Consumer, *models.Order) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	orderRepo := repository.NewOrderRepository(db)
	order := &models.Order{
		OrderNo:       "SU-WORKER-1",
		UserID:        1,
		Status:        constants.OrderStatusInTransit,
		Currency:      constants.DefaultCurrency,
		TotalAmount:   models.NewMoneyFromInt(799),
		CustomerName:  "Ayse",
		CustomerEmail: "ayse@example.com",
		CreatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	items := []models.OrderItem{{ProductID: 1, ProductName: "Oak Chair", UnitPrice: models.NewMoneyFromInt(799), Quantity: 1, TotalPrice: models.NewMoneyFromInt(799)}}
	if err := orderRepo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	container := &provider.Container{
		Config:       &config.Config{},
		OrderRepo:    orderRepo,
		EmailService: service.NewEmailService(&config.EmailConfig{}),
	}
	container.InvoiceService = service.NewInvoiceService(orderRepo, nil, mailer, invoice.Seller{Name: "SUHome"}, time.Second)
	return NewConsumer(container), order
}

func TestHandleInvoiceEmailSendsPDF(t *testing.T) {
	mailer := &captureMailer{}
	consumer, order := setupConsumer(t, mailer)
	task, err := queue.NewInvoiceEmailTask(queue.InvoiceEmailPayload{OrderID: order.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleInvoiceEmail(context.Background(), task); err != nil {
		t.Fatalf("handle invoice email failed: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "ayse@example.com" {
		t.Fatalf("expected invoice mail to order email, got %+v", mailer.sent)
	}
	if len(mailer.sent[0].Attachments) != 1 || mailer.sent[0].Attachments[0].Filename != "invoice-SU-WORKER-1.pdf" {
		t.Fatalf("expected pdf attachment")
	}
}

func TestHandleInvoiceEmailRetryPolicy(t *testing.T) {
	mailer := &captureMailer{err: errors.New("dial tcp timeout")}
	consumer, order := setupConsumer(t, mailer)
	task, _ := queue.NewInvoiceEmailTask(queue.InvoiceEmailPayload{OrderID: order.ID})
	err := consumer.handleInvoiceEmail(context.Background(), task)
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("transient mail failure should be retried, got %v", err)
	}

	mailer.err = service.ErrEmailRecipientRejected
	err = consumer.handleInvoiceEmail(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("rejected recipient should skip retry, got %v", err)
	}

	missing, _ := queue.NewInvoiceEmailTask(queue.InvoiceEmailPayload{OrderID: 4242})
	if err := consumer.handleInvoiceEmail(context.Background(), missing); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
	if err := consumer.handleInvoiceEmail(context.Background(), asynq.NewTask(queue.TaskInvoiceEmail, []byte("{"))); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}
}

func TestHandleOrderStatusEmailSkipsWhenMailDisabled(t *testing.T) {
	consumer, order := setupConsumer(t, &captureMailer{})
	task, err := queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{OrderID: order.ID, Status: constants.OrderStatusInTransit})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("disabled mail should be skipped, got %v", err)
	}
	empty, _ := queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{})
	if err := consumer.handleOrderStatusEmail(context.Background(), empty); err != nil {
		t.Fatalf("empty payload should be skipped, got %v", err)
	}
}

func TestClassifySendError(t *testing.T) {
	if err := classifySendError("test", 1, service.ErrEmailServiceDisabled); err != nil {
		t.Fatalf("disabled mail should be skipped, got %v", err)
	}
	if err := classifySendError("test", 1, service.ErrInvalidEmail); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("invalid receiver should skip retry, got %v", err)
	}
	transient := errors.New("connection reset")
	if err := classifySendError("test", 1, transient); !errors.Is(err, transient) {
		t.Fatalf("transient error should be returned, got %v", err)
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{}, &Consumer{}); err == nil {
		t.Fatalf("disabled queue should not start a worker")
	}
}
