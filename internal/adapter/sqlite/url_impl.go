package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/user/page-analyzer/internal/entity"
)

// URLRepoImpl implements repository.URLRepository on SQLite.
type URLRepoImpl struct {
	db *sql.DB
}

// NewURLRepo creates a new instance of URLRepoImpl.
func NewURLRepo(db *sql.DB) *URLRepoImpl {
	return &URLRepoImpl{db: db}
}

func (r *URLRepoImpl) FindByName(ctx context.Context, name string) (*entity.URL, error) {
	var u entity.URL
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM urls WHERE name = ?`, name,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *URLRepoImpl) FindByID(ctx context.Context, id int64) (*entity.URL, error) {
	var u entity.URL
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM urls WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *URLRepoImpl) Insert(ctx context.Context, name string, createdAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO urls (name, created_at) VALUES (?, ?)`, name, createdAt.UTC(),
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

// ListWithLastCheck joins each URL to its latest check by created_at, breaking
// ties on the higher id.
func (r *URLRepoImpl) ListWithLastCheck(ctx context.Context) ([]entity.URLSummary, error) {
	query := `
		SELECT u.id, u.name, u.created_at, c.created_at, c.status_code
		FROM urls u
		LEFT JOIN url_checks c ON c.id = (
			SELECT id
			FROM url_checks
			WHERE url_id = u.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
		ORDER BY u.id DESC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []entity.URLSummary{}
	for rows.Next() {
		var (
			s         entity.URLSummary
			checkedAt sql.NullTime
			status    sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &checkedAt, &status); err != nil {
			return nil, err
		}
		if checkedAt.Valid {
			s.LastCheckedAt = &checkedAt.Time
		}
		if status.Valid {
			code := int(status.Int64)
			s.LastStatusCode = &code
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
