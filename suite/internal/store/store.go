// Package store persists assertion run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/domassert/dbopen"
	"github.com/hazyhaar/domassert/idgen"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	suite       TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	passed      INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS results (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	page_id    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	locator    TEXT NOT NULL,
	negated    INTEGER NOT NULL DEFAULT 0,
	pass       INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	detail     TEXT
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`

// Run is one suite execution.
type Run struct {
	ID         string     `json:"id"`
	Suite      string     `json:"suite"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
}

// Result is one check outcome within a run.
type Result struct {
	RunID     string `json:"run_id"`
	PageID    string `json:"page_id"`
	Kind      string `json:"kind"`
	Locator   string `json:"locator"`
	Negated   bool   `json:"negated"`
	Pass      bool   `json:"pass"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Detail    string `json:"detail,omitempty"`
}

// Store wraps the history database.
type Store struct {
	db    *sql.DB
	newID idgen.Generator
}

// Open opens (and migrates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{db: db, newID: idgen.Prefixed("run_", idgen.Default)}, nil
}

// New wraps an already-open database, applying the schema.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Store{db: db, newID: idgen.Prefixed("run_", idgen.Default)}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// keepRuns bounds history growth: beginning a run prunes everything beyond
// the newest keepRuns entries, results included via cascade.
const keepRuns = 200

// BeginRun records the start of a suite execution and returns its ID. The
// insert and the pruning of old runs commit as one transaction.
func (s *Store) BeginRun(ctx context.Context, suiteName string) (string, error) {
	id := s.newID()
	err := dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, suite, started_at) VALUES (?, ?, ?)`,
			id, suiteName, time.Now().UTC()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM runs WHERE id NOT IN (
			   SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?)`,
			keepRuns)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("store: begin run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run with its end time and tallies.
func (s *Store) FinishRun(ctx context.Context, runID string, passed, failed int) error {
	_, err := dbopen.Exec(ctx, s.db,
		`UPDATE runs SET finished_at = ?, passed = ?, failed = ? WHERE id = ?`,
		time.Now().UTC(), passed, failed, runID)
	if err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	return nil
}

// AddResult appends one check outcome to a run.
func (s *Store) AddResult(ctx context.Context, r Result) error {
	_, err := dbopen.Exec(ctx, s.db,
		`INSERT INTO results (run_id, page_id, kind, locator, negated, pass, elapsed_ms, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.PageID, r.Kind, r.Locator, r.Negated, r.Pass, r.ElapsedMS, r.Detail)
	if err != nil {
		return fmt.Errorf("store: add result: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, suite, started_at, finished_at, passed, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Suite, &r.StartedAt, &r.FinishedAt, &r.Passed, &r.Failed); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Results returns the check outcomes of one run in insertion order.
func (s *Store) Results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, page_id, kind, locator, negated, pass, elapsed_ms, COALESCE(detail, '')
		 FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: list results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.RunID, &r.PageID, &r.Kind, &r.Locator, &r.Negated, &r.Pass, &r.ElapsedMS, &r.Detail); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
