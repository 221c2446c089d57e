// Package auditlog persists query/response audit records to an
// append-only sink. Writes are best-effort from the caller's point of
// view: the handler swallows failures after recording them, so no Writer
// implementation may be load-bearing for the request path.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Entry is one audit record: the user query as received and the final
// response serialized as JSON.
type Entry struct {
	Timestamp time.Time
	Query     string
	Response  string
}

// Writer persists audit entries.
type Writer interface {
	Write(ctx context.Context, entry Entry) error
}

// NoopWriter ignores all audit writes. Used when no sink is configured.
type NoopWriter struct{}

func (NoopWriter) Write(_ context.Context, _ Entry) error { return nil }

// SQLWriter persists entries to SQLite or Postgres.
type SQLWriter struct {
	db      *sql.DB
	dialect string
}

// NewSQLiteWriter opens (creating if needed) a SQLite audit log at dsn.
func NewSQLiteWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "querygw-audit.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite audit writer: %w", err)
	}
	w := &SQLWriter{db: db, dialect: "sqlite"}
	if err := w.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

// NewPostgresWriter connects to the Postgres audit log at dsn.
func NewPostgresWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres audit writer: %w", err)
	}
	w := &SQLWriter{db: db, dialect: "postgres"}
	if err := w.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLWriter) init() error {
	if err := w.db.Ping(); err != nil {
		return fmt.Errorf("ping %s audit writer: %w", w.dialect, err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS audit_logs (
	id INTEGER PRIMARY KEY,
	query TEXT NOT NULL,
	response TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

	if w.dialect == "postgres" {
		ddl = `
CREATE TABLE IF NOT EXISTS audit_logs (
	id BIGSERIAL PRIMARY KEY,
	query TEXT NOT NULL,
	response TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`
	}

	if _, err := w.db.Exec(ddl); err != nil {
		return fmt.Errorf("initialize audit log schema: %w", err)
	}
	return nil
}

// Write appends one entry. A zero Timestamp is stamped with the current
// UTC time.
func (w *SQLWriter) Write(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	query := `INSERT INTO audit_logs(query, response, created_at) VALUES(?, ?, ?)`
	if w.dialect == "postgres" {
		query = `INSERT INTO audit_logs(query, response, created_at) VALUES($1, $2, $3)`
	}

	if _, err := w.db.ExecContext(ctx, query, entry.Query, entry.Response, entry.Timestamp); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. The request path never
// reads the audit log; this exists for operational inspection and tests.
func (w *SQLWriter) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT query, response, created_at FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT ?`
	if w.dialect == "postgres" {
		query = `SELECT query, response, created_at FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT $1`
	}

	rows, err := w.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Query, &e.Response, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log rows: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (w *SQLWriter) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}
