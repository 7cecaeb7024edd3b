package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/page-analyzer/internal/entity"
)

// URLRepoImpl implements repository.URLRepository on PostgreSQL.
type URLRepoImpl struct {
	db *pgxpool.Pool
}

// NewURLRepo creates a new instance of URLRepoImpl.
func NewURLRepo(db *pgxpool.Pool) *URLRepoImpl {
	return &URLRepoImpl{db: db}
}

func (r *URLRepoImpl) FindByName(ctx context.Context, name string) (*entity.URL, error) {
	var u entity.URL
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM urls WHERE name = $1`, name,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *URLRepoImpl) FindByID(ctx context.Context, id int64) (*entity.URL, error) {
	var u entity.URL
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM urls WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *URLRepoImpl) Insert(ctx context.Context, name string, createdAt time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO urls (name, created_at) VALUES ($1, $2) RETURNING id`,
		name, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// ListWithLastCheck picks the latest check per URL by created_at, breaking
// ties on the higher id.
func (r *URLRepoImpl) ListWithLastCheck(ctx context.Context) ([]entity.URLSummary, error) {
	query := `
		SELECT u.id, u.name, u.created_at, c.created_at, c.status_code
		FROM urls u
		LEFT JOIN LATERAL (
			SELECT created_at, status_code
			FROM url_checks
			WHERE url_id = u.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) c ON TRUE
		ORDER BY u.id DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []entity.URLSummary{}
	for rows.Next() {
		var s entity.URLSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.LastCheckedAt, &s.LastStatusCode); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
