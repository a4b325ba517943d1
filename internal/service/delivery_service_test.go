package service

import (
	"context"
	"errors"
	"testing"

	"github.com/suhome/internal/constants"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		current string
		want    string
		ok      bool
	}{
		{current: constants.OrderStatusProcessing, want: constants.OrderStatusInTransit, ok: true},
		{current: constants.OrderStatusInTransit, want: constants.OrderStatusDelivered, ok: true},
		{current: constants.OrderStatusDelivered, want: "", ok: false},
		{current: "unknown", want: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := NextStatus(tt.current)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("NextStatus(%q) = %q,%v want %q,%v", tt.current, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAdvanceReachesDeliveredInTwoSteps(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Bookcase", 450, 3, 0)
	customer := env.createUser(t, "track@example.com", constants.RoleCustomer)
	staff := env.createUser(t, "sales@example.com", constants.RoleSalesManager)
	order := env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})

	first, err := env.delivery.Advance(ctx, order.ID, staff)
	if err != nil {
		t.Fatalf("first advance failed: %v", err)
	}
	if first.Status != constants.OrderStatusInTransit || first.Delivery == nil || first.Delivery.ShippedAt == nil {
		t.Fatalf("expected in_transit with shipped_at, got %s", first.Status)
	}
	if first.Delivery.Status != first.Status {
		t.Fatalf("delivery status %s should mirror order status %s", first.Delivery.Status, first.Status)
	}

	second, err := env.delivery.Advance(ctx, order.ID, staff)
	if err != nil {
		t.Fatalf("second advance failed: %v", err)
	}
	if second.Status != constants.OrderStatusDelivered || second.DeliveredAt == nil || second.Delivery.DeliveredAt == nil {
		t.Fatalf("expected delivered with timestamps, got %s", second.Status)
	}

	third, err := env.delivery.Advance(ctx, order.ID, staff)
	if err != nil {
		t.Fatalf("advance on delivered should be a no-op, got %v", err)
	}
	if third.Status != constants.OrderStatusDelivered {
		t.Fatalf("delivered order must stay delivered, got %s", third.Status)
	}
	if env.publisher.countByType(constants.EventDeliveryAdvanced) != 2 {
		t.Fatalf("expected 2 delivery events")
	}
	if len(env.queue.statusEmails) != 2 || env.queue.statusEmails[1].Status != constants.OrderStatusDelivered {
		t.Fatalf("expected 2 status email tasks, got %+v", env.queue.statusEmails)
	}
}

func TestAdvanceRequiresPolicy(t *testing.T) {
	env := newServiceTestEnv(t)
	product := env.createProduct(t, "Armchair", 650, 2, 0)
	customer := env.createUser(t, "self@example.com", constants.RoleCustomer)
	order := env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})

	if _, err := env.delivery.Advance(context.Background(), order.ID, customer); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	stored, err := env.orderRepo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusProcessing {
		t.Fatalf("order status changed without permission: %s", stored.Status)
	}
}

func TestAdvanceUnknownOrder(t *testing.T) {
	env := newServiceTestEnv(t)
	staff := env.createUser(t, "ops@example.com", constants.RoleSalesManager)
	if _, err := env.delivery.Advance(context.Background(), 777, staff); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestUpdateCarrier(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Nightstand", 220, 2, 0)
	customer := env.createUser(t, "carrier@example.com", constants.RoleCustomer)
	manager := env.createUser(t, "pm@example.com", constants.RoleProductManager)
	order := env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})

	if _, err := env.delivery.UpdateCarrier(ctx, order.ID, manager, "", " "); !errors.Is(err, ErrInvalidDelivery) {
		t.Fatalf("expected invalid delivery, got %v", err)
	}
	if _, err := env.delivery.UpdateCarrier(ctx, order.ID, customer, "Aras", "TR1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	updated, err := env.delivery.UpdateCarrier(ctx, order.ID, manager, "Aras Kargo", "TR123456")
	if err != nil {
		t.Fatalf("update carrier failed: %v", err)
	}
	if updated.Delivery == nil || updated.Delivery.Carrier != "Aras Kargo" || updated.Delivery.TrackingNo != "TR123456" {
		t.Fatalf("carrier not persisted: %+v", updated.Delivery)
	}
	if updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("carrier update must not change status")
	}
}
