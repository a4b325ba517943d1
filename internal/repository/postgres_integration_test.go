//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/suhome/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.Comment{},
		&models.Payment{},
		&models.Delivery{},
		&models.OrderItem{},
		&models.Order{},
		&models.CartItem{},
		&models.Product{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// 并发扣减不能超卖
func TestPostgresConcurrentDecrementNeverOversells(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	product := &models.Product{Name: "Walnut Chair", Price: models.NewMoneyFromInt(450), Stock: 10, IsActive: true}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			affected, err := repo.DecrementStock(product.ID, 1)
			if err != nil {
				t.Errorf("decrement failed: %v", err)
				return
			}
			if affected == 1 {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 10 {
		t.Fatalf("successful decrements want 10 got %d", success)
	}
	reloaded, err := repo.GetByID(product.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("stock want 0 got %d", reloaded.Stock)
	}
}

func TestPostgresProductSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	if err := repo.Create(&models.Product{Name: "Velvet SOFA", Price: models.NewMoneyFromInt(1799), Stock: 1, IsActive: true}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	rows, total, err := repo.List(ProductListFilter{Search: "sofa", OnlyActive: true})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("search want 1 got total=%d len=%d", total, len(rows))
	}
}
