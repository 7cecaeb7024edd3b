package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/user/page-analyzer/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS urls (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       VARCHAR(255) NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS url_checks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	url_id      INTEGER NOT NULL REFERENCES urls (id),
	status_code INTEGER,
	h1          TEXT,
	title       TEXT,
	description TEXT,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_url_checks_url_id_created_at ON url_checks (url_id, created_at DESC, id DESC);
`

// Open opens the database file at path (":memory:" for a private in-memory
// database), enables foreign keys and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// One connection keeps writes serialized and an in-memory database shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var sqlErr *msqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(repository.ErrDuplicateName, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.Join(repository.ErrForeignKeyViolation, err)
		case sqlite3.SQLITE_CONSTRAINT:
			msg := sqlErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return errors.Join(repository.ErrDuplicateName, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return errors.Join(repository.ErrForeignKeyViolation, err)
			}
		}
	}
	return err
}
