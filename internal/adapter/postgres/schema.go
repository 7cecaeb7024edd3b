package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS urls (
	id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name       VARCHAR(255) NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS url_checks (
	id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	url_id      BIGINT NOT NULL REFERENCES urls (id),
	status_code INTEGER,
	h1          TEXT,
	title       TEXT,
	description TEXT,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_url_checks_url_id_created_at ON url_checks (url_id, created_at DESC, id DESC);
`

// NewPool connects to PostgreSQL, verifies the connection and applies the schema.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return pool, nil
}
