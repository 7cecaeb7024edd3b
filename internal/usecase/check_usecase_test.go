package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestChecker_Run(t *testing.T) {
	tests := []struct {
		name     string
		snapshot entity.PageSnapshot
	}{
		{
			name:     "success with title only",
			snapshot: entity.PageSnapshot{StatusCode: 200, Title: strPtr("Hi")},
		},
		{
			name:     "server error is still recorded",
			snapshot: entity.PageSnapshot{StatusCode: 500},
		},
		{
			name: "all fields",
			snapshot: entity.PageSnapshot{
				StatusCode:  200,
				Title:       strPtr("T"),
				H1:          strPtr("H"),
				Description: strPtr("D"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			urls := newFakeURLRepo()
			checks := &fakeCheckRepo{urls: urls}
			fetcher := &fakeFetcher{snapshot: &tt.snapshot}
			id, _ := urls.Insert(ctx, "https://example.com", testTime)

			check, err := NewChecker(urls, checks, fetcher, zap.NewNop()).Run(ctx, id)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(fetcher.calls) != 1 || fetcher.calls[0] != "https://example.com" {
				t.Errorf("fetch calls = %v, want exactly one against the url name", fetcher.calls)
			}
			if check.ID == 0 || check.URLID != id {
				t.Errorf("check = %+v", check)
			}
			if *check.StatusCode != tt.snapshot.StatusCode {
				t.Errorf("status = %d, want %d", *check.StatusCode, tt.snapshot.StatusCode)
			}
			if (check.H1 == nil) != (tt.snapshot.H1 == nil) || (check.Title == nil) != (tt.snapshot.Title == nil) ||
				(check.Description == nil) != (tt.snapshot.Description == nil) {
				t.Errorf("field presence mismatch: %+v vs %+v", check, tt.snapshot)
			}
			if len(checks.checks) != 1 {
				t.Errorf("stored %d checks, want 1", len(checks.checks))
			}
		})
	}
}

func TestChecker_RunNetworkError(t *testing.T) {
	ctx := context.Background()
	urls := newFakeURLRepo()
	checks := &fakeCheckRepo{urls: urls}
	netErr := errors.New("dial tcp: connection refused")
	id, _ := urls.Insert(ctx, "https://down.example", testTime)

	_, err := NewChecker(urls, checks, &fakeFetcher{err: netErr}, zap.NewNop()).Run(ctx, id)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Run() error = %v, want *FetchError", err)
	}
	if fetchErr.URL != "https://down.example" || !errors.Is(err, netErr) {
		t.Errorf("FetchError = %+v", fetchErr)
	}
	if len(checks.checks) != 0 {
		t.Errorf("network failure stored %d checks", len(checks.checks))
	}
}

func TestChecker_RunURLNotFound(t *testing.T) {
	urls := newFakeURLRepo()
	fetcher := &fakeFetcher{snapshot: &entity.PageSnapshot{StatusCode: 200}}

	_, err := NewChecker(urls, &fakeCheckRepo{urls: urls}, fetcher, zap.NewNop()).Run(context.Background(), 42)
	if !errors.Is(err, ErrURLNotFound) {
		t.Fatalf("Run() error = %v, want ErrURLNotFound", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times for a missing url", len(fetcher.calls))
	}
}

func TestChecker_RunPersistenceErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign key backstop", func(t *testing.T) {
		urls := newFakeURLRepo()
		id, _ := urls.Insert(ctx, "https://example.com", testTime)
		checks := &fakeCheckRepo{urls: urls, insertErr: repository.ErrForeignKeyViolation}
		fetcher := &fakeFetcher{snapshot: &entity.PageSnapshot{StatusCode: 200}}

		_, err := NewChecker(urls, checks, fetcher, zap.NewNop()).Run(ctx, id)
		if !errors.Is(err, ErrURLNotFound) {
			t.Fatalf("Run() error = %v, want ErrURLNotFound", err)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		urls := newFakeURLRepo()
		id, _ := urls.Insert(ctx, "https://example.com", testTime)
		dbErr := errors.New("connection reset")
		checks := &fakeCheckRepo{urls: urls, insertErr: dbErr}
		fetcher := &fakeFetcher{snapshot: &entity.PageSnapshot{StatusCode: 200}}

		_, err := NewChecker(urls, checks, fetcher, zap.NewNop()).Run(ctx, id)
		var fetchErr *FetchError
		if !errors.Is(err, dbErr) || errors.As(err, &fetchErr) || errors.Is(err, ErrURLNotFound) {
			t.Fatalf("Run() error = %v, want wrapped storage error", err)
		}
	})
}
