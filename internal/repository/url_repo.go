package repository

import (
	"context"
	"time"

	"github.com/user/page-analyzer/internal/entity"
)

// URLRepository defines persistence for registered URLs.
type URLRepository interface {
	// FindByName returns the URL with exactly this name, or ErrNotFound.
	FindByName(ctx context.Context, name string) (*entity.URL, error)
	// FindByID returns the URL with this id, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*entity.URL, error)
	// Insert stores a new URL and returns its id. A uniqueness violation is
	// reported as ErrDuplicateName.
	Insert(ctx context.Context, name string, createdAt time.Time) (int64, error)
	// ListWithLastCheck returns every URL, newest id first, with the timestamp
	// and status code of its latest check.
	ListWithLastCheck(ctx context.Context) ([]entity.URLSummary, error)
}
