package main

import (
	"os"

	"github.com/suhome/internal/config"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name          string
	Description   string
	Material      string
	Color         string
	Category      string
	MainCategory  string
	Price         string
	OriginalPrice string
	Stock         int
}

type staffSeed struct {
	Email string
	Name  string
	Role  string
}

var productSeeds = []productSeed{
	{Name: "Oslo 3-Seat Sofa", Description: "Low-profile sofa with removable covers", Material: "linen", Color: "grey", Category: "sofas", MainCategory: "living_room", Price: "1500.00", Stock: 8},
	{Name: "Bergen Armchair", Description: "Solid oak frame armchair", Material: "oak", Color: "natural", Category: "chairs", MainCategory: "living_room", Price: "420.00", OriginalPrice: "480.00", Stock: 15},
	{Name: "Arc Floor Lamp", Description: "Brushed steel arc lamp", Material: "steel", Color: "black", Category: "lighting", MainCategory: "living_room", Price: "185.50", Stock: 20},
	{Name: "Fjord Dining Table", Description: "Extendable table for six", Material: "walnut", Color: "brown", Category: "tables", MainCategory: "dining_room", Price: "960.00", Stock: 5},
	{Name: "Nordic Dining Chair", Description: "Stackable dining chair", Material: "beech", Color: "white", Category: "chairs", MainCategory: "dining_room", Price: "120.00", Stock: 40},
	{Name: "Kilim Rug 160x230", Description: "Hand-woven wool rug", Material: "wool", Color: "red", Category: "rugs", MainCategory: "bedroom", Price: "340.00", OriginalPrice: "399.00", Stock: 6},
	{Name: "Drift Queen Bed", Description: "Upholstered bed frame with storage", Material: "velvet", Color: "blue", Category: "beds", MainCategory: "bedroom", Price: "1250.00", Stock: 3},
}

var staffSeeds = []staffSeed{
	{Email: "product.manager@suhome.local", Name: "Product Manager", Role: constants.RoleProductManager},
	{Email: "sales.manager@suhome.local", Name: "Sales Manager", Role: constants.RoleSalesManager},
	{Email: "support@suhome.local", Name: "Support Agent", Role: constants.RoleSupport},
	{Email: "customer@suhome.local", Name: "Demo Customer", Role: constants.RoleCustomer},
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 商品（按名称去重）
	for _, seed := range productSeeds {
		var existing models.Product
		if err := models.DB.Where("name = ?", seed.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", seed.Name)
			continue
		}
		product := models.Product{
			Name:          seed.Name,
			Description:   seed.Description,
			Material:      seed.Material,
			Color:         seed.Color,
			Category:      seed.Category,
			MainCategory:  seed.MainCategory,
			Price:         models.NewMoneyFromDecimal(mustDecimal(seed.Price)),
			OriginalPrice: models.NewMoneyFromDecimal(mustDecimal(seed.OriginalPrice)),
			Stock:         seed.Stock,
			IsActive:      true,
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", seed.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s", seed.Name)
	}

	// 员工与演示账号
	password := os.Getenv("SUHOME_SEED_PASSWORD")
	if password == "" {
		password = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}
	for _, seed := range staffSeeds {
		var existing models.User
		if err := models.DB.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", seed.Email)
			continue
		}
		user := models.User{
			Email:        seed.Email,
			PasswordHash: string(hash),
			Name:         seed.Name,
			Role:         seed.Role,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", seed.Email, err)
			continue
		}
		stdLog.Printf("Created %s account: %s", seed.Role, seed.Email)
	}

	stdLog.Printf("Seed completed")
}

func mustDecimal(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(raw)
}
