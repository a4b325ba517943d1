package repository

import (
	"testing"

	"github.com/suhome/internal/models"
)

func TestCommentUpsertKeepsSingleRow(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCommentRepository(db)

	if err := repo.Upsert(&models.Comment{UserID: 1, ProductID: 5, Rating: 2, Content: "meh"}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.Upsert(&models.Comment{UserID: 1, ProductID: 5, Rating: 5, Content: "great after all"}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if err := repo.Upsert(&models.Comment{UserID: 2, ProductID: 5, Rating: 4, Content: "nice"}); err != nil {
		t.Fatalf("other user upsert failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Comment{}).Where("user_id = ? AND product_id = ?", 1, 5).Count(&count).Error; err != nil {
		t.Fatalf("count comments failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("comment rows want 1 got %d", count)
	}

	comment, err := repo.GetByUserAndProduct(1, 5)
	if err != nil || comment == nil {
		t.Fatalf("get comment failed: %v", err)
	}
	if comment.Rating != 5 || comment.Content != "great after all" {
		t.Fatalf("comment not replaced: %+v", comment)
	}

	average, total, err := repo.RatingSummary(5)
	if err != nil {
		t.Fatalf("rating summary failed: %v", err)
	}
	if total != 2 || average != 4.5 {
		t.Fatalf("rating summary want 4.5/2 got %v/%d", average, total)
	}
}

func TestRatingSummaryEmpty(t *testing.T) {
	repo := NewCommentRepository(setupRepositoryTestDB(t))
	average, total, err := repo.RatingSummary(99)
	if err != nil {
		t.Fatalf("rating summary failed: %v", err)
	}
	if total != 0 || average != 0 {
		t.Fatalf("empty summary want 0/0 got %v/%d", average, total)
	}
}
