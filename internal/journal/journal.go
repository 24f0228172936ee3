// Package journal persists run outcomes to a local SQLite database.
//
// The journal is an operational audit trail: it is written once per run and
// read back only by the `journal` command. Nothing in the fetch/analysis path
// consumes it.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

// Journal records and lists run outcomes.
type Journal interface {
	Record(ctx context.Context, run *models.RunRecord) error
	Recent(ctx context.Context, limit int) ([]models.RunRecord, error)
	Close() error
}

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

var _ Journal = (*SQLiteJournal)(nil)

// Open opens (and if needed creates) the journal database at the given path.
func Open(dbPath string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}

	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		fetch_attempts INTEGER NOT NULL DEFAULT 0,
		current_pressure_mmhg REAL,
		min_pressure_mmhg REAL,
		drop_mmhg REAL,
		alert INTEGER NOT NULL DEFAULT 0,
		channels TEXT,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Record appends a run record.
func (j *SQLiteJournal) Record(ctx context.Context, run *models.RunRecord) error {
	channels, err := json.Marshal(run.Channels)
	if err != nil {
		return fmt.Errorf("serializing channel results: %w", err)
	}

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, status, fetch_attempts,
			current_pressure_mmhg, min_pressure_mmhg, drop_mmhg, alert, channels, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(), run.FinishedAt.UTC(), string(run.Status), run.FetchAttempts,
		run.CurrentPressureMmHg, run.MinPressureMmHg, run.DropMmHg,
		boolToInt(run.Alert), string(channels), run.Error,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		run.ID = id
	}

	return nil
}

// Recent returns the most recent run records, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, fetch_attempts,
			current_pressure_mmhg, min_pressure_mmhg, drop_mmhg, alert, channels, error
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var (
			run      models.RunRecord
			status   string
			alert    int
			channels sql.NullString
			errMsg   sql.NullString
			started  time.Time
			finished time.Time
		)
		if err := rows.Scan(&run.ID, &started, &finished, &status, &run.FetchAttempts,
			&run.CurrentPressureMmHg, &run.MinPressureMmHg, &run.DropMmHg,
			&alert, &channels, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		run.StartedAt = started
		run.FinishedAt = finished
		run.Status = models.RunStatus(status)
		run.Alert = alert != 0
		run.Error = errMsg.String
		if channels.Valid && channels.String != "" {
			if err := json.Unmarshal([]byte(channels.String), &run.Channels); err != nil {
				return nil, fmt.Errorf("parsing channel results: %w", err)
			}
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Close closes the journal database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
