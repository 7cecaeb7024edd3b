package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func TestURLRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewURLRepo(newTestDB(t))
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := repo.Insert(ctx, "https://example.com", now)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	t.Run("find by name", func(t *testing.T) {
		u, err := repo.FindByName(ctx, "https://example.com")
		if err != nil {
			t.Fatalf("FindByName: %v", err)
		}
		if u.ID != id || !u.CreatedAt.Equal(now) {
			t.Errorf("FindByName = %+v, want id %d created %v", u, id, now)
		}
	})

	t.Run("name match is exact", func(t *testing.T) {
		if _, err := repo.FindByName(ctx, "https://Example.com"); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("FindByName error = %v, want ErrNotFound", err)
		}
	})

	t.Run("find by id", func(t *testing.T) {
		u, err := repo.FindByID(ctx, id)
		if err != nil || u.Name != "https://example.com" {
			t.Fatalf("FindByID = %+v, %v", u, err)
		}
		if _, err := repo.FindByID(ctx, id+100); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("FindByID(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate insert is surfaced", func(t *testing.T) {
		if _, err := repo.Insert(ctx, "https://example.com", now); !errors.Is(err, repository.ErrDuplicateName) {
			t.Errorf("Insert error = %v, want ErrDuplicateName", err)
		}
	})
}

func TestCheckRepo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	urls := NewURLRepo(db)
	checks := NewCheckRepo(db)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	urlID, err := urls.Insert(ctx, "https://example.com", now)
	if err != nil {
		t.Fatalf("Insert url: %v", err)
	}

	first, err := checks.Insert(ctx, &entity.Check{
		URLID:      urlID,
		StatusCode: ptr(500),
		CreatedAt:  now.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("Insert check: %v", err)
	}
	second, err := checks.Insert(ctx, &entity.Check{
		URLID:       urlID,
		StatusCode:  ptr(200),
		Title:       ptr("Hi"),
		H1:          ptr("Welcome"),
		Description: ptr("A page"),
		CreatedAt:   now.Add(2 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Insert check: %v", err)
	}

	list, err := checks.ListByURL(ctx, urlID)
	if err != nil {
		t.Fatalf("ListByURL: %v", err)
	}
	if len(list) != 2 || list[0].ID != second || list[1].ID != first {
		t.Fatalf("ListByURL order = %+v, want [%d %d]", list, second, first)
	}
	if list[1].Title != nil || list[1].H1 != nil || list[1].Description != nil {
		t.Errorf("absent fields should stay nil: %+v", list[1])
	}
	if *list[0].Title != "Hi" || *list[0].H1 != "Welcome" || *list[0].Description != "A page" || *list[0].StatusCode != 200 {
		t.Errorf("unexpected fields: %+v", list[0])
	}

	t.Run("missing url is refused", func(t *testing.T) {
		_, err := checks.Insert(ctx, &entity.Check{URLID: urlID + 42, CreatedAt: now})
		if !errors.Is(err, repository.ErrForeignKeyViolation) {
			t.Fatalf("Insert error = %v, want ErrForeignKeyViolation", err)
		}
		if list, _ := checks.ListByURL(ctx, urlID+42); len(list) != 0 {
			t.Errorf("orphan check was written: %+v", list)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		list, err := checks.ListByURL(ctx, urlID+1)
		if err != nil || len(list) != 0 {
			t.Errorf("ListByURL = %v, %v; want empty", list, err)
		}
	})
}

func TestURLRepo_ListWithLastCheck(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	urls := NewURLRepo(db)
	checks := NewCheckRepo(db)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	checkedID, err := urls.Insert(ctx, "https://checked.example", base)
	if err != nil {
		t.Fatal(err)
	}
	idleID, err := urls.Insert(ctx, "https://idle.example", base)
	if err != nil {
		t.Fatal(err)
	}

	for i, code := range []int{200, 404, 503} {
		_, err := checks.Insert(ctx, &entity.Check{
			URLID:      checkedID,
			StatusCode: ptr(code),
			CreatedAt:  base.Add(time.Duration(i+1) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	// Same timestamp as the latest one: the higher id wins.
	if _, err := checks.Insert(ctx, &entity.Check{
		URLID:      checkedID,
		StatusCode: ptr(301),
		CreatedAt:  base.Add(3 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	summaries, err := urls.ListWithLastCheck(ctx)
	if err != nil {
		t.Fatalf("ListWithLastCheck: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	idle, checked := summaries[0], summaries[1]
	if idle.ID != idleID || checked.ID != checkedID {
		t.Fatalf("order = [%d %d], want [%d %d]", idle.ID, checked.ID, idleID, checkedID)
	}
	if idle.LastCheckedAt != nil || idle.LastStatusCode != nil {
		t.Errorf("idle url has check data: %+v", idle)
	}
	if checked.LastStatusCode == nil || *checked.LastStatusCode != 301 {
		t.Errorf("last status = %v, want 301", checked.LastStatusCode)
	}
	if checked.LastCheckedAt == nil || !checked.LastCheckedAt.Equal(base.Add(3*time.Hour)) {
		t.Errorf("last checked at = %v, want %v", checked.LastCheckedAt, base.Add(3*time.Hour))
	}
}
