package constants

// 订单状态常量（交付状态与订单状态保持一致）
const (
	OrderStatusProcessing = "processing"
	OrderStatusInTransit  = "in_transit"
	OrderStatusDelivered  = "delivered"
)

// 交付状态常量
const (
	DeliveryStatusProcessing = OrderStatusProcessing
	DeliveryStatusInTransit  = OrderStatusInTransit
	DeliveryStatusDelivered  = OrderStatusDelivered
)

// 用户角色常量
const (
	RoleCustomer       = "customer"
	RoleAdmin          = "admin"
	RoleProductManager = "product_manager"
	RoleSalesManager   = "sales_manager"
	RoleSupport        = "support"
)

// 支付状态常量
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// 支付方式常量
const (
	PaymentMethodCard           = "card"
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// 购物车归属前缀
const (
	CartOwnerUserPrefix  = "user:"
	CartOwnerGuestPrefix = "guest:"
)

// 发票邮件结果
const (
	InvoiceEmailSent    = "sent"
	InvoiceEmailSkipped = "skipped"
)

// 默认币种
const DefaultCurrency = "TRY"

// 领域事件类型
const (
	EventOrderPlaced      = "order.placed"
	EventDeliveryAdvanced = "delivery.advanced"
	EventReviewSubmitted  = "review.submitted"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskInvoiceEmail     = "invoice:email"
	TaskOrderStatusEmail = "order:status_email"
)
