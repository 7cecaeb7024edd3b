package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
)

// CheckRepoImpl implements repository.CheckRepository on SQLite.
type CheckRepoImpl struct {
	db *sql.DB
}

// NewCheckRepo creates a new instance of CheckRepoImpl.
func NewCheckRepo(db *sql.DB) *CheckRepoImpl {
	return &CheckRepoImpl{db: db}
}

// Insert verifies the parent URL and stores the check in one transaction.
func (r *CheckRepoImpl) Insert(ctx context.Context, check *entity.Check) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var parentID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM urls WHERE id = ?`, check.URLID).Scan(&parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("url %d: %w", check.URLID, repository.ErrForeignKeyViolation)
	}
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO url_checks (url_id, status_code, h1, title, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		check.URLID,
		nullInt(check.StatusCode),
		nullString(check.H1),
		nullString(check.Title),
		nullString(check.Description),
		check.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *CheckRepoImpl) ListByURL(ctx context.Context, urlID int64) ([]entity.Check, error) {
	query := `
		SELECT id, url_id, status_code, h1, title, description, created_at
		FROM url_checks
		WHERE url_id = ?
		ORDER BY id DESC;
	`
	rows, err := r.db.QueryContext(ctx, query, urlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := []entity.Check{}
	for rows.Next() {
		var (
			c                entity.Check
			status           sql.NullInt64
			h1, title, descr sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.URLID, &status, &h1, &title, &descr, &c.CreatedAt); err != nil {
			return nil, err
		}
		if status.Valid {
			code := int(status.Int64)
			c.StatusCode = &code
		}
		c.H1 = stringPtr(h1)
		c.Title = stringPtr(title)
		c.Description = stringPtr(descr)
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
