// Package history keeps a local SQLite log of pipeline runs.
//
// Every "gocyto network" run is recorded with its inputs, the network SUID
// it created and how it ended, so "gocyto history" can answer which session
// came from which files.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one recorded pipeline run.
type Run struct {
	ID        string
	Network   string
	SUID      int64
	BaseURL   string
	EdgesPath string
	Nodes     int
	Edges     int
	Style     string
	Session   string
	Image     string
	StartedAt time.Time
	Duration  time.Duration
	Status    string
	Error     string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store is a SQLite-backed run log.
type Store struct {
	db   *sql.DB
	Path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	network     TEXT NOT NULL,
	suid        INTEGER NOT NULL DEFAULT 0,
	base_url    TEXT NOT NULL DEFAULT '',
	edges_path  TEXT NOT NULL DEFAULT '',
	nodes       INTEGER NOT NULL DEFAULT 0,
	edges       INTEGER NOT NULL DEFAULT 0,
	style       TEXT NOT NULL DEFAULT '',
	session     TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// Open opens or creates the store at path. ":memory:" opens a private
// in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "history directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writes.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db, Path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts or replaces a run. An empty ID gets a new one.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	if r.Status == "" {
		r.Status = StatusOK
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, network, suid, base_url, edges_path, nodes, edges, style, session, image,
			 started_at, duration_ms, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Network, r.SUID, r.BaseURL, r.EdgesPath, r.Nodes, r.Edges, r.Style, r.Session, r.Image,
		r.StartedAt.UnixMilli(), r.Duration.Milliseconds(), r.Status, r.Error)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

const selectRuns = `
	SELECT id, network, suid, base_url, edges_path, nodes, edges, style, session, image,
	       started_at, duration_ms, status, error
	FROM runs`

// List returns the most recent runs first. A limit of zero or less returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectRuns + " ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Get returns the run with the given ID or a NOT_FOUND error.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s not found", id)
	}
	return r, err
}

// Prune deletes runs older than cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r         Run
		startedAt int64
		duration  int64
	)
	err := sc.Scan(&r.ID, &r.Network, &r.SUID, &r.BaseURL, &r.EdgesPath, &r.Nodes, &r.Edges,
		&r.Style, &r.Session, &r.Image, &startedAt, &duration, &r.Status, &r.Error)
	if err != nil {
		return nil, err
	}
	r.StartedAt = time.UnixMilli(startedAt)
	r.Duration = time.Duration(duration) * time.Millisecond
	return &r, nil
}
