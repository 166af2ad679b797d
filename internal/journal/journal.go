// Package journal persists run history to a local SQLite database so that
// successive driver runs can be compared after the fact.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mcp-fetch-driver/internal/driver"
)

// Journal is a run-history store backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at the given path, ensuring
// the parent directory exists.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging journal at %s: %w", path, err)
	}

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) initSchema() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			command TEXT NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			scenario TEXT NOT NULL,
			url TEXT NOT NULL,
			kind TEXT NOT NULL,
			fetch_method TEXT,
			detail TEXT,
			elapsed_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id);
	`)
	if err != nil {
		return fmt.Errorf("initializing journal schema: %w", err)
	}
	return nil
}

// RecordRun writes one run and its outcomes in a single transaction.
func (j *Journal) RecordRun(runID string, startedAt time.Time, command string, outcomes []driver.Outcome) error {
	passed := 0
	for _, o := range outcomes {
		if o.Kind == driver.OutcomeSuccess {
			passed++
		}
	}

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning journal transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, command, passed, failed) VALUES (?, ?, ?, ?, ?)`,
		runID, startedAt.Unix(), command, passed, len(outcomes)-passed,
	); err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}

	for _, o := range outcomes {
		var fetchMethod, detail string
		switch o.Kind {
		case driver.OutcomeSuccess:
			fetchMethod = o.Fetch.Method
		case driver.OutcomeAPIError:
			detail = fmt.Sprintf("%d: %s", o.APIError.Code, o.APIError.Message)
		case driver.OutcomeTransportFailure:
			detail = o.Failure.Error()
		}
		if _, err := tx.Exec(
			`INSERT INTO outcomes (run_id, idx, scenario, url, kind, fetch_method, detail, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, o.Index, o.Scenario.Name, o.Scenario.URL, o.Kind.String(), fetchMethod, detail, o.Elapsed.Milliseconds(),
		); err != nil {
			return fmt.Errorf("recording outcome %d of run %s: %w", o.Index, runID, err)
		}
	}

	return tx.Commit()
}
