package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/events"
	"github.com/suhome/internal/invoice"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/queue"
	"github.com/suhome/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) countByType(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, evt := range p.events {
		if evt.Type == eventType {
			count++
		}
	}
	return count
}

type recordingQueue struct {
	invoiceEmails []queue.InvoiceEmailPayload
	statusEmails  []queue.OrderStatusEmailPayload
}

func (q *recordingQueue) EnqueueInvoiceEmail(payload queue.InvoiceEmailPayload, opts ...asynq.Option) error {
	q.invoiceEmails = append(q.invoiceEmails, payload)
	return nil
}

func (q *recordingQueue) EnqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload, opts ...asynq.Option) error {
	q.statusEmails = append(q.statusEmails, payload)
	return nil
}

type stubMailer struct {
	err  error
	sent []MailMessage
}

func (m *stubMailer) Send(ctx context.Context, msg MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubLocker struct {
	acquired bool
	err      error
}

func (l stubLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	return func() {}, l.acquired, l.err
}

type serviceTestEnv struct {
	db           *gorm.DB
	productRepo  *repository.GormProductRepository
	userRepo     *repository.GormUserRepository
	cartRepo     *repository.GormCartRepository
	orderRepo    *repository.GormOrderRepository
	deliveryRepo *repository.GormDeliveryRepository
	commentRepo  *repository.GormCommentRepository
	paymentRepo  *repository.GormPaymentRepository
	authz        *authz.Service
	publisher    *recordingPublisher
	queue        *recordingQueue
	mailer       *stubMailer

	catalog  *CatalogService
	cart     *CartService
	checkout *CheckoutService
	delivery *DeliveryService
	orders   *OrderService
	invoices *InvoiceService
	reviews  *ReviewService
	payments *PaymentService
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("init authz failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}

	env := &serviceTestEnv{
		db:           db,
		productRepo:  repository.NewProductRepository(db),
		userRepo:     repository.NewUserRepository(db),
		cartRepo:     repository.NewCartRepository(db),
		orderRepo:    repository.NewOrderRepository(db),
		deliveryRepo: repository.NewDeliveryRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		paymentRepo:  repository.NewPaymentRepository(db),
		authz:        authzService,
		publisher:    &recordingPublisher{},
		queue:        &recordingQueue{},
		mailer:       &stubMailer{},
	}
	timeout := 5 * time.Second
	env.catalog = NewCatalogService(env.productRepo, authzService, timeout)
	env.cart = NewCartService(env.cartRepo, env.productRepo, timeout)
	env.checkout = NewCheckoutService(env.orderRepo, env.productRepo, env.cartRepo, env.deliveryRepo, env.userRepo,
		authzService, stubLocker{acquired: true}, env.publisher, env.queue, CheckoutOptions{
			Currency:              constants.DefaultCurrency,
			SendInvoiceOnCheckout: true,
			QueryTimeout:          timeout,
		})
	env.delivery = NewDeliveryService(env.orderRepo, env.deliveryRepo, authzService, env.publisher, env.queue, timeout)
	env.orders = NewOrderService(env.orderRepo, authzService, timeout)
	env.invoices = NewInvoiceService(env.orderRepo, authzService, env.mailer, invoice.Seller{Name: "SUHome"}, timeout)
	env.reviews = NewReviewService(env.commentRepo, env.orderRepo, env.productRepo, authzService, env.publisher, timeout)
	env.payments = NewPaymentService(env.paymentRepo, env.orderRepo, authzService, timeout)
	return env
}

func (env *serviceTestEnv) createProduct(t *testing.T, name string, price int64, stock, held int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      name,
		Price:     models.NewMoneyFromInt(price),
		Stock:     stock,
		HeldStock: held,
		IsActive:  true,
	}
	if err := env.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (env *serviceTestEnv) createUser(t *testing.T, email, role string) Actor {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         strings.Split(email, "@")[0],
		Role:         role,
	}
	if err := env.userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return Actor{UserID: user.ID, Role: role}
}

func (env *serviceTestEnv) reloadProduct(t *testing.T, id uint) *models.Product {
	t.Helper()
	product, err := env.productRepo.GetByID(id)
	if err != nil || product == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return product
}

func (env *serviceTestEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := env.db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}

func testShippingAddress() models.Address {
	return models.Address{
		Name:       "Ayse Yilmaz",
		Phone:      "+90 555 000 0000",
		Line1:      "Orta Mah. 12",
		City:       "Istanbul",
		PostalCode: "34956",
		Country:    "TR",
	}
}

// placeTestOrder 下单辅助
func (env *serviceTestEnv) placeTestOrder(t *testing.T, actor Actor, lines ...CheckoutLine) *models.Order {
	t.Helper()
	result, err := env.checkout.Checkout(context.Background(), actor, CheckoutInput{
		Lines:    lines,
		Shipping: testShippingAddress(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return result.Order
}

func (env *serviceTestEnv) deliverOrder(t *testing.T, orderID uint) {
	t.Helper()
	staff := Actor{UserID: 9999, Role: constants.RoleSalesManager}
	for i := 0; i < 2; i++ {
		if _, err := env.delivery.Advance(context.Background(), orderID, staff); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}
}
