package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
)

// CheckRepoImpl implements repository.CheckRepository on PostgreSQL.
type CheckRepoImpl struct {
	db *pgxpool.Pool
}

// NewCheckRepo creates a new instance of CheckRepoImpl.
func NewCheckRepo(db *pgxpool.Pool) *CheckRepoImpl {
	return &CheckRepoImpl{db: db}
}

// Insert verifies the parent URL and stores the check in one transaction.
func (r *CheckRepoImpl) Insert(ctx context.Context, check *entity.Check) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var parentID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM urls WHERE id = $1 FOR SHARE`, check.URLID,
	).Scan(&parentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("url %d: %w", check.URLID, repository.ErrForeignKeyViolation)
	}
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO url_checks (url_id, status_code, h1, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		check.URLID,
		check.StatusCode,
		check.H1,
		check.Title,
		check.Description,
		check.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *CheckRepoImpl) ListByURL(ctx context.Context, urlID int64) ([]entity.Check, error) {
	query := `
		SELECT id, url_id, status_code, h1, title, description, created_at
		FROM url_checks
		WHERE url_id = $1
		ORDER BY id DESC;
	`
	rows, err := r.db.Query(ctx, query, urlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := []entity.Check{}
	for rows.Next() {
		var c entity.Check
		if err := rows.Scan(
			&c.ID,
			&c.URLID,
			&c.StatusCode,
			&c.H1,
			&c.Title,
			&c.Description,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}
