package repository

import (
	"context"

	"github.com/user/page-analyzer/internal/entity"
)

// CheckRepository defines persistence for check results.
type CheckRepository interface {
	// Insert stores a check and returns its id. It fails with
	// ErrForeignKeyViolation when check.URLID does not exist.
	Insert(ctx context.Context, check *entity.Check) (int64, error)
	// ListByURL returns the checks of a URL ordered by id descending.
	ListByURL(ctx context.Context, urlID int64) ([]entity.Check, error)
}
