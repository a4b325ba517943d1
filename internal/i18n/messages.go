package i18n

var catalog = map[string]map[string]string{
	LocaleEnUS: {
		"success":                       "success",
		"error.bad_request":             "Invalid request parameters",
		"error.unauthorized":            "Unauthorized",
		"error.forbidden":               "Operation not permitted",
		"error.auth_header_missing":     "Authorization header is missing",
		"error.auth_header_invalid":     "Authorization header is invalid",
		"error.token_invalid":           "Token is invalid or expired",
		"error.token_revoked":           "Token has been revoked",
		"error.jwt_secret_missing":      "JWT secret is not configured",
		"error.too_many_requests":       "Too many requests, please try again later",
		"error.login_invalid":           "Incorrect email or password",
		"error.email_exists":            "Email is already registered",
		"error.email_invalid":           "Email address is invalid",
		"error.password_too_short":      "Password must be at least 8 characters",
		"error.register_failed":         "Registration failed",
		"error.login_failed":            "Login failed",
		"error.product_not_found":       "Product not found",
		"error.product_invalid":         "Product data is invalid",
		"error.catalog_unavailable":     "Catalog is temporarily unavailable, please retry",
		"error.product_save_failed":     "Failed to save product",
		"error.guest_token_missing":     "Guest token is required",
		"error.quantity_invalid":        "Quantity must be at least 1",
		"error.insufficient_stock":      "Not enough stock for this product",
		"error.cart_failed":             "Cart operation failed",
		"error.cart_empty":              "Cart is empty",
		"error.address_invalid":         "Shipping address is incomplete",
		"error.stock_conflict":          "Some products are no longer available in the requested quantity",
		"error.checkout_in_progress":    "An order is already being submitted",
		"error.order_create_failed":     "Failed to place order",
		"error.order_not_found":         "Order not found",
		"error.order_fetch_failed":      "Failed to load orders",
		"error.order_status_conflict":   "Order status changed concurrently, please retry",
		"error.order_update_failed":     "Failed to update order",
		"error.invoice_failed":          "Failed to render invoice",
		"error.mail_unavailable":        "Mail service is unavailable",
		"error.rating_invalid":          "Rating must be between 1 and 5",
		"error.review_forbidden":        "Only delivered purchases can be reviewed",
		"error.review_failed":           "Failed to submit review",
		"error.payment_invalid":         "Payment data is invalid",
		"error.payment_failed":          "Failed to record payment",
		"error.internal":                "Internal server error",
		"error.rate_limited":            "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiter is unavailable",
		"error.user_id_invalid":         "User id is invalid",
		"error.user_id_type_invalid":    "User id has an unexpected type",
		"error.not_found":               "Resource not found",
		"error.delivery_invalid":        "Carrier or tracking number is required",
		"error.review_invalid":          "Review content is too long",
		"error.idempotency_key_invalid": "Idempotency key is invalid",
		"invoice.email_subject":         "Your SUHome invoice %s",
		"invoice.email_body":            "Hello %s,\n\nPlease find attached the invoice for order %s.\n\nThank you for shopping with SUHome.",
		"order.status_email_subject":    "Order %s update",
		"order.status_email_body":       "Hello %s,\n\nYour order %s is now %s.\n\nSUHome",
		"order.status.processing":       "processing",
		"order.status.in_transit":       "in transit",
		"order.status.delivered":        "delivered",
	},
	LocaleTrTR: {
		"success":                    "başarılı",
		"error.bad_request":          "Geçersiz istek parametreleri",
		"error.unauthorized":         "Yetkisiz",
		"error.forbidden":            "Bu işleme izin verilmiyor",
		"error.token_invalid":        "Oturum geçersiz veya süresi dolmuş",
		"error.too_many_requests":    "Çok fazla istek, lütfen daha sonra tekrar deneyin",
		"error.rate_limited":         "Çok fazla istek, lütfen %d saniye sonra tekrar deneyin",
		"error.login_invalid":        "E-posta veya şifre hatalı",
		"error.product_not_found":    "Ürün bulunamadı",
		"error.catalog_unavailable":  "Katalog geçici olarak kullanılamıyor",
		"error.quantity_invalid":     "Adet en az 1 olmalıdır",
		"error.insufficient_stock":   "Bu ürün için yeterli stok yok",
		"error.cart_empty":           "Sepetiniz boş",
		"error.address_invalid":      "Teslimat adresi eksik",
		"error.stock_conflict":       "Bazı ürünler istenen miktarda artık mevcut değil",
		"error.order_create_failed":  "Sipariş oluşturulamadı",
		"error.order_not_found":      "Sipariş bulunamadı",
		"error.mail_unavailable":     "E-posta servisi kullanılamıyor",
		"error.rating_invalid":       "Puan 1 ile 5 arasında olmalıdır",
		"error.review_forbidden":     "Yalnızca teslim edilen ürünler değerlendirilebilir",
		"error.internal":             "Sunucu hatası",
		"invoice.email_subject":      "SUHome faturanız %s",
		"invoice.email_body":         "Merhaba %s,\n\n%s numaralı siparişinizin faturası ektedir.\n\nSUHome'u tercih ettiğiniz için teşekkürler.",
		"order.status_email_subject": "Sipariş %s güncellemesi",
		"order.status_email_body":    "Merhaba %s,\n\n%s numaralı siparişinizin durumu: %s.\n\nSUHome",
		"order.status.processing":    "hazırlanıyor",
		"order.status.in_transit":    "yolda",
		"order.status.delivered":     "teslim edildi",
	},
	LocaleZhCN: {
		"success":                   "成功",
		"error.bad_request":         "请求参数错误",
		"error.unauthorized":        "未授权",
		"error.forbidden":           "无权执行该操作",
		"error.token_invalid":       "登录已失效",
		"error.too_many_requests":   "请求过于频繁，请稍后再试",
		"error.login_invalid":       "邮箱或密码错误",
		"error.product_not_found":   "商品不存在",
		"error.catalog_unavailable": "商品目录暂不可用，请重试",
		"error.quantity_invalid":    "数量至少为 1",
		"error.insufficient_stock":  "商品库存不足",
		"error.cart_empty":          "购物车为空",
		"error.address_invalid":     "收货地址不完整",
		"error.stock_conflict":      "部分商品库存不足",
		"error.order_create_failed": "下单失败",
		"error.order_not_found":     "订单不存在",
		"error.mail_unavailable":    "邮件服务不可用",
		"error.rating_invalid":      "评分需在 1 到 5 之间",
		"error.review_forbidden":    "仅已送达的商品可以评价",
		"error.internal":            "服务器内部错误",
		"order.status.processing":   "处理中",
		"order.status.in_transit":   "运输中",
		"order.status.delivered":    "已送达",
	},
}
