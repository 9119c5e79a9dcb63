// Package history persists the routes the user has visited so a session can
// pick up where the previous one left off.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/csheth/wordcloud/internal/route"
)

// Visit is one recorded route.
type Visit struct {
	ID        int64
	Route     route.Route
	VisitedAt time.Time
}

// Store wraps the sqlite database holding the visit log.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}

	s := &Store{db: sqlDB, path: path}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory store.
func OpenMemory() (*Store, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory history: %w", err)
	}
	// every pooled connection would otherwise see its own empty database
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: sqlDB, path: ":memory:"}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Path is the database location, ":memory:" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    token TEXT NOT NULL,
    payload TEXT NOT NULL DEFAULT '',
    visited_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);
`

// Record appends r to the log. Empty routes are ignored, as is a repeat of
// the most recent visit.
func (s *Store) Record(ctx context.Context, r route.Route) error {
	if r.Empty() {
		return nil
	}
	last, ok, err := s.Last(ctx)
	if err != nil {
		return err
	}
	if ok && last == r {
		return nil
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO visits (token, payload, visited_at) VALUES (?, ?, ?)`,
		r.Token, r.Payload, time.Now().UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// Last returns the most recently recorded route.
func (s *Store) Last(ctx context.Context) (route.Route, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token, payload FROM visits ORDER BY id DESC LIMIT 1`)
	var r route.Route
	if err := row.Scan(&r.Token, &r.Payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return route.Route{}, false, nil
		}
		return route.Route{}, false, fmt.Errorf("reading last visit: %w", err)
	}
	return r, true, nil
}

// Recent returns up to limit visits, newest first. A non-positive limit
// returns every visit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Visit, error) {
	query := `SELECT id, token, payload, visited_at FROM visits ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var (
			v     Visit
			nanos int64
		)
		if err := rows.Scan(&v.ID, &v.Route.Token, &v.Route.Payload, &nanos); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.VisitedAt = time.Unix(0, nanos).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
