package repository

import (
	"fmt"
	"testing"

	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/models"
)

var testOrderSeq int

func nextTestOrderSeq() int {
	testOrderSeq++
	return testOrderSeq
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, userID uint, status string, productIDs ...uint) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:     fmt.Sprintf("SU-TEST-%d-%d", userID, nextTestOrderSeq()),
		UserID:      userID,
		Status:      status,
		Currency:    constants.DefaultCurrency,
		TotalAmount: models.NewMoneyFromInt(100),
	}
	items := make([]models.OrderItem, 0, len(productIDs))
	for _, productID := range productIDs {
		items = append(items, models.OrderItem{
			ProductID:  productID,
			UnitPrice:  models.NewMoneyFromInt(100),
			Quantity:   1,
			TotalPrice: models.NewMoneyFromInt(100),
		})
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestHasDeliveredProduct(t *testing.T) {
	repo := NewOrderRepository(setupRepositoryTestDB(t))
	order := createTestOrder(t, repo, 7, constants.OrderStatusProcessing, 11, 12)

	ok, err := repo.HasDeliveredProduct(7, 11, constants.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("has delivered product failed: %v", err)
	}
	if ok {
		t.Fatalf("processing order must not count as delivered")
	}

	affected, err := repo.UpdateStatus(order.ID, constants.OrderStatusProcessing, map[string]interface{}{
		"status": constants.OrderStatusDelivered,
	})
	if err != nil || affected != 1 {
		t.Fatalf("update status failed: affected=%d err=%v", affected, err)
	}

	ok, err = repo.HasDeliveredProduct(7, 11, constants.OrderStatusDelivered)
	if err != nil || !ok {
		t.Fatalf("expected delivered product, ok=%v err=%v", ok, err)
	}
	if ok, _ := repo.HasDeliveredProduct(8, 11, constants.OrderStatusDelivered); ok {
		t.Fatalf("other user must not be eligible")
	}
	if ok, _ := repo.HasDeliveredProduct(7, 13, constants.OrderStatusDelivered); ok {
		t.Fatalf("product outside order must not be eligible")
	}
}

func TestUpdateStatusGuardedByCurrentStatus(t *testing.T) {
	repo := NewOrderRepository(setupRepositoryTestDB(t))
	order := createTestOrder(t, repo, 1, constants.OrderStatusProcessing, 1)

	affected, err := repo.UpdateStatus(order.ID, constants.OrderStatusInTransit, map[string]interface{}{
		"status": constants.OrderStatusDelivered,
	})
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("stale status update want 0 affected got %d", affected)
	}
}

func TestOrderGetByIDPreloadsItemsInOrder(t *testing.T) {
	repo := NewOrderRepository(setupRepositoryTestDB(t))
	order := createTestOrder(t, repo, 1, constants.OrderStatusProcessing, 3, 1, 2)

	got, err := repo.GetByID(order.ID)
	if err != nil || got == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(got.Items) != 3 || got.Items[0].ProductID != 3 || got.Items[2].ProductID != 2 {
		t.Fatalf("unexpected items: %+v", got.Items)
	}

	missing, err := repo.GetByID(order.ID + 100)
	if err != nil || missing != nil {
		t.Fatalf("missing order want nil,nil got %+v,%v", missing, err)
	}
}
