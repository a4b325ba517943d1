package service

import (
	"context"
	"errors"
	"testing"

	"github.com/suhome/internal/constants"

	"github.com/shopspring/decimal"
)

func TestRecordPayment(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Lounge Chair", 999, 2, 0)
	customer := env.createUser(t, "payer@example.com", constants.RoleCustomer)
	order := env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})

	payment, err := env.payments.RecordPayment(ctx, customer, order.ID, RecordPaymentInput{
		Method: constants.PaymentMethodCard,
		Status: constants.PaymentStatusSuccess,
	})
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if payment.Amount.String() != "999.00" || payment.PaidAt == nil || payment.Currency != order.Currency {
		t.Fatalf("unexpected payment: amount=%s paid_at=%v", payment.Amount, payment.PaidAt)
	}

	partial := decimal.NewFromInt(100)
	if _, err := env.payments.RecordPayment(ctx, customer, order.ID, RecordPaymentInput{
		Amount: &partial,
		Method: constants.PaymentMethodBankTransfer,
	}); err != nil {
		t.Fatalf("record partial payment failed: %v", err)
	}
	payments, err := env.payments.ListByOrder(ctx, customer, order.ID)
	if err != nil || len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d err=%v", len(payments), err)
	}

	stored, err := env.orderRepo.GetByID(order.ID)
	if err != nil || stored.Status != constants.OrderStatusProcessing {
		t.Fatalf("payments must not change order status: %v", err)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Stool", 70, 2, 0)
	customer := env.createUser(t, "pay2@example.com", constants.RoleCustomer)
	other := env.createUser(t, "pay3@example.com", constants.RoleCustomer)
	order := env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})

	if _, err := env.payments.RecordPayment(ctx, customer, order.ID, RecordPaymentInput{Method: "crypto"}); !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected invalid payment, got %v", err)
	}
	negative := decimal.NewFromInt(-5)
	if _, err := env.payments.RecordPayment(ctx, customer, order.ID, RecordPaymentInput{Method: constants.PaymentMethodCard, Amount: &negative}); !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := env.payments.RecordPayment(ctx, other, order.ID, RecordPaymentInput{Method: constants.PaymentMethodCard}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := env.payments.ListByOrder(ctx, other, order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden list, got %v", err)
	}
}
