package provider

import (
	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/cache"
	"github.com/suhome/internal/config"
	"github.com/suhome/internal/events"
	"github.com/suhome/internal/invoice"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/queue"
	"github.com/suhome/internal/repository"
	"github.com/suhome/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   events.Publisher

	// Repositories
	UserRepo     repository.UserRepository
	ProductRepo  repository.ProductRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository
	DeliveryRepo repository.DeliveryRepository
	CommentRepo  repository.CommentRepository
	PaymentRepo  repository.PaymentRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	EmailService    *service.EmailService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	DeliveryService *service.DeliveryService
	OrderService    *service.OrderService
	InvoiceService  *service.InvoiceService
	ReviewService   *service.ReviewService
	PaymentService  *service.PaymentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端（未启用时为空实现）
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Publisher:   events.NewPublisher(&cfg.Events),
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices(models.DB)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DeliveryRepo = repository.NewDeliveryRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	cfg := c.Config
	timeout := cfg.Database.QueryTimeout()
	seller := invoice.Seller{
		Name:    cfg.Invoice.SellerName,
		Address: cfg.Invoice.SellerAddress,
		TaxID:   cfg.Invoice.SellerTaxID,
	}

	c.EmailService = service.NewEmailService(&cfg.Email)
	c.AuthService = service.NewAuthService(cfg, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.AuthzService, timeout)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, timeout)
	c.CheckoutService = service.NewCheckoutService(
		c.OrderRepo,
		c.ProductRepo,
		c.CartRepo,
		c.DeliveryRepo,
		c.UserRepo,
		c.AuthzService,
		cache.NewRedisLocker(),
		c.Publisher,
		c.QueueClient,
		service.CheckoutOptions{
			Currency:              cfg.Checkout.Currency,
			SubmitLockTTL:         cfg.Checkout.SubmitLockTTL(),
			SendInvoiceOnCheckout: cfg.Checkout.SendInvoiceOnCheckout,
			QueryTimeout:          timeout,
		},
	)
	c.DeliveryService = service.NewDeliveryService(c.OrderRepo, c.DeliveryRepo, c.AuthzService, c.Publisher, c.QueueClient, timeout)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.AuthzService, timeout)
	c.InvoiceService = service.NewInvoiceService(c.OrderRepo, c.AuthzService, c.EmailService, seller, timeout)
	c.ReviewService = service.NewReviewService(c.CommentRepo, c.OrderRepo, c.ProductRepo, c.AuthzService, c.Publisher, timeout)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.AuthzService, timeout)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_publisher_failed", "error", err)
		}
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
