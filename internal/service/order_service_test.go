package service

import (
	"context"
	"errors"
	"testing"

	"github.com/suhome/internal/constants"
)

func TestListHistoryAccess(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Ottoman", 150, 5, 0)
	customer := env.createUser(t, "history@example.com", constants.RoleCustomer)
	other := env.createUser(t, "peek@example.com", constants.RoleCustomer)
	support := env.createUser(t, "care@example.com", constants.RoleSupport)
	env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})
	env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 2})

	orders, total, err := env.orders.ListHistory(ctx, customer, ListHistoryInput{})
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d/%d", len(orders), total)
	}
	if len(orders[0].Items) == 0 {
		t.Fatalf("history should include order items")
	}

	if _, _, err := env.orders.ListHistory(ctx, other, ListHistoryInput{UserID: customer.UserID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	_, total, err = env.orders.ListHistory(ctx, support, ListHistoryInput{UserID: customer.UserID, Status: constants.OrderStatusProcessing})
	if err != nil || total != 2 {
		t.Fatalf("support should list customer orders, total=%d err=%v", total, err)
	}
	if _, _, err := env.orders.ListHistory(ctx, Actor{}, ListHistoryInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous history should be unauthorized, got %v", err)
	}
}

func TestGetOrderOwnership(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Mirror", 180, 5, 0)
	customer := env.createUser(t, "mine@example.com", constants.RoleCustomer)
	other := env.createUser(t, "yours@example.com", constants.RoleCustomer)
	order := env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})

	if _, err := env.orders.GetOrder(ctx, other, order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	got, err := env.orders.GetOrder(ctx, customer, order.ID)
	if err != nil || got.ID != order.ID {
		t.Fatalf("owner should read order: %v", err)
	}
}
