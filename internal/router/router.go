package router

import (
	"fmt"
	"strings"

	"github.com/suhome/internal/cache"
	"github.com/suhome/internal/config"
	adminhandlers "github.com/suhome/internal/http/handlers/admin"
	publichandlers "github.com/suhome/internal/http/handlers/public"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按顾客/员工分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "suhome"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.CheckoutRateLimit.BlockSeconds,
	}

	userAuth := UserJWTAuthMiddleware(c.AuthService, cfg.JWT.SecretKey)
	optionalAuth := OptionalUserJWTAuthMiddleware(c.AuthService, cfg.JWT.SecretKey)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 商品与评价（公开）
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/comments/:id", publicHandler.ListComments)

		// 购物车（游客或用户）
		cart := apiV1.Group("/cart")
		cart.Use(optionalAuth)
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/:product_id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", publicHandler.RemoveCartItem)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.POST("/cart/merge", publicHandler.MergeCart)
			user.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByUserID), publicHandler.Checkout)
			user.GET("/orders/history", publicHandler.ListOrderHistory)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/orders/:id/invoice", publicHandler.GetInvoice)
			user.POST("/orders/:id/invoice/email", publicHandler.EmailInvoice)
			user.POST("/orders/:id/payments", publicHandler.RecordPayment)
			user.GET("/orders/:id/payments", publicHandler.ListPayments)
			user.POST("/comments", publicHandler.SubmitComment)
			user.GET("/comments/can/:id", publicHandler.CanComment)

			// 员工操作，角色权限由服务层判定
			user.PUT("/orders/:id/status", adminHandler.AdvanceOrderStatus)
			user.PUT("/orders/:id/delivery", adminHandler.UpdateDelivery)
		}

		admin := apiV1.Group("/admin")
		admin.Use(userAuth)
		{
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id/stock", adminHandler.UpdateStock)
			admin.PUT("/products/:id/price", adminHandler.UpdatePrice)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
