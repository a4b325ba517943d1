package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/models"
)

func TestCanReviewFollowsDelivery(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Coffee Table", 540, 3, 0)
	customer := env.createUser(t, "review@example.com", constants.RoleCustomer)

	ok, err := env.reviews.CanReview(ctx, customer.UserID, product.ID)
	if err != nil || ok {
		t.Fatalf("no order yet, want false got %v err=%v", ok, err)
	}

	order := env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})
	if ok, _ := env.reviews.CanReview(ctx, customer.UserID, product.ID); ok {
		t.Fatalf("processing order must not allow review")
	}

	staff := Actor{UserID: 900, Role: constants.RoleSalesManager}
	if _, err := env.delivery.Advance(ctx, order.ID, staff); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if ok, _ := env.reviews.CanReview(ctx, customer.UserID, product.ID); ok {
		t.Fatalf("in_transit order must not allow review")
	}
	if _, err := env.delivery.Advance(ctx, order.ID, staff); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if ok, _ := env.reviews.CanReview(ctx, customer.UserID, product.ID); !ok {
		t.Fatalf("delivered order should allow review")
	}
}

func TestSubmitReviewForbiddenWithoutDelivery(t *testing.T) {
	env := newServiceTestEnv(t)
	product := env.createProduct(t, "Wardrobe", 2100, 2, 0)
	customer := env.createUser(t, "early@example.com", constants.RoleCustomer)
	env.placeTestOrder(t, customer, CheckoutLine{ProductID: product.ID, Quantity: 1})

	_, err := env.reviews.SubmitReview(context.Background(), customer, product.ID, 5, "great")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if env.countRows(t, &models.Comment{}) != 0 {
		t.Fatalf("no comment should be stored")
	}
}

func TestSubmitReviewUpsertsAndRecomputesRating(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Dining Chair", 320, 5, 0)
	alice := env.createUser(t, "alice@example.com", constants.RoleCustomer)
	bob := env.createUser(t, "bob@example.com", constants.RoleCustomer)
	env.deliverOrder(t, env.placeTestOrder(t, alice, CheckoutLine{ProductID: product.ID, Quantity: 1}).ID)
	env.deliverOrder(t, env.placeTestOrder(t, bob, CheckoutLine{ProductID: product.ID, Quantity: 1}).ID)

	if _, err := env.reviews.SubmitReview(ctx, alice, product.ID, 2, "wobbly"); err != nil {
		t.Fatalf("submit review failed: %v", err)
	}
	if _, err := env.reviews.SubmitReview(ctx, bob, product.ID, 5, "solid"); err != nil {
		t.Fatalf("submit review failed: %v", err)
	}
	comment, err := env.reviews.SubmitReview(ctx, alice, product.ID, 4, "fixed after tightening")
	if err != nil {
		t.Fatalf("resubmit review failed: %v", err)
	}
	if comment.Rating != 4 || comment.Content != "fixed after tightening" {
		t.Fatalf("review not overwritten: %+v", comment)
	}
	if env.countRows(t, &models.Comment{}) != 2 {
		t.Fatalf("expected one review per user and product")
	}
	stored := env.reloadProduct(t, product.ID)
	if stored.RatingCount != 2 || stored.AverageRating != 4.5 {
		t.Fatalf("expected average 4.5 over 2, got %v over %d", stored.AverageRating, stored.RatingCount)
	}
	if env.publisher.countByType(constants.EventReviewSubmitted) != 3 {
		t.Fatalf("expected review events for every submission")
	}

	comments, total, err := env.reviews.ListByProduct(ctx, product.ID, 1, 10)
	if err != nil || total != 2 || len(comments) != 2 {
		t.Fatalf("list reviews want 2 got %d/%d err=%v", len(comments), total, err)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	env := newServiceTestEnv(t)
	customer := env.createUser(t, "rate@example.com", constants.RoleCustomer)
	ctx := context.Background()
	for _, rating := range []int{0, 6} {
		if _, err := env.reviews.SubmitReview(ctx, customer, 1, rating, ""); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected invalid rating, got %v", rating, err)
		}
	}
	long := strings.Repeat("a", maxReviewContentLength+1)
	if _, err := env.reviews.SubmitReview(ctx, customer, 1, 3, long); !errors.Is(err, ErrInvalidReview) {
		t.Fatalf("expected invalid review, got %v", err)
	}
	support := env.createUser(t, "helpdesk@example.com", constants.RoleSupport)
	if _, err := env.reviews.SubmitReview(ctx, support, 1, 3, "ok"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
