package repository

import (
	"strings"
	"testing"

	"github.com/suhome/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func limitClause(t *testing.T, stmt *gorm.Statement) (clause.Limit, bool) {
	t.Helper()
	c, ok := stmt.Clauses["LIMIT"]
	if !ok {
		return clause.Limit{}, false
	}
	limit, ok := c.Expression.(clause.Limit)
	if !ok {
		t.Fatalf("unexpected limit expression %T", c.Expression)
	}
	return limit, true
}

func TestPaginateScope(t *testing.T) {
	db := setupRepositoryTestDB(t)
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLimit  int
		wantOffset int
	}{
		{name: "second page", page: 2, pageSize: 20, wantLimit: 20, wantOffset: 20},
		{name: "page below one", page: 0, pageSize: 10, wantLimit: 10, wantOffset: 0},
		{name: "size capped", page: 1, pageSize: 5000, wantLimit: maxPageSize, wantOffset: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var products []models.Product
			stmt := db.Session(&gorm.Session{DryRun: true}).Scopes(paginate(tt.page, tt.pageSize)).Find(&products).Statement
			limit, ok := limitClause(t, stmt)
			if !ok || limit.Limit == nil {
				t.Fatalf("limit clause missing")
			}
			if *limit.Limit != tt.wantLimit || limit.Offset != tt.wantOffset {
				t.Fatalf("limit=%d offset=%d, want %d/%d", *limit.Limit, limit.Offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}

	var products []models.Product
	stmt := db.Session(&gorm.Session{DryRun: true}).Scopes(paginate(3, 0)).Find(&products).Statement
	if _, ok := limitClause(t, stmt); ok || strings.Contains(stmt.SQL.String(), "LIMIT") {
		t.Fatalf("non-positive page size should not paginate: %s", stmt.SQL.String())
	}
}

func TestFindPageCountsBeforeSlicing(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	for _, name := range []string{"Armchair", "Bookcase", "Cabinet"} {
		createTestProduct(t, repo, name, 100, 1, 0)
	}

	items, total, err := findPage[models.Product](db.Model(&models.Product{}), 2, 2, func(q *gorm.DB) *gorm.DB {
		return q.Order("id asc")
	})
	if err != nil {
		t.Fatalf("find page failed: %v", err)
	}
	if total != 3 || len(items) != 1 || items[0].Name != "Cabinet" {
		t.Fatalf("unexpected page: total=%d items=%+v", total, items)
	}

	empty, total, err := findPage[models.Product](db.Model(&models.Product{}).Where("name = ?", "Wardrobe"), 1, 10, nil)
	if err != nil {
		t.Fatalf("find empty page failed: %v", err)
	}
	if total != 0 || empty == nil || len(empty) != 0 {
		t.Fatalf("empty page should be a non-nil empty slice")
	}
}
