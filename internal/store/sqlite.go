// Package store keeps a history of attack runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/report"
)

const defaultListLimit = 20

// Run is one stored run.
type Run struct {
	ID               string
	Experiment       string
	CreatedAt        time.Time
	TotalSamples     int
	BaselineAccuracy float64
	BestType         models.PerturbationType
	BestRate         float64
	Summary          *report.Summary
}

// SQLiteStore persists runs using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	experiment        TEXT NOT NULL,
	created_at        DATETIME NOT NULL,
	total_samples     INTEGER NOT NULL,
	baseline_accuracy REAL NOT NULL,
	best_type         TEXT NOT NULL DEFAULT '',
	best_rate         REAL NOT NULL DEFAULT 0,
	summary           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores sum under its run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, sum *report.Summary) error {
	if sum.RunID == "" {
		return eris.New("sqlite: summary has no run id")
	}
	summaryJSON, err := json.Marshal(sum)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, experiment, created_at, total_samples, baseline_accuracy, best_type, best_rate, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, sum.Experiment, sum.CreatedAt.UTC(), sum.TotalSamples,
		sum.BaselineAccuracy, string(sum.Best), sum.BestRate, string(summaryJSON),
	)
	return eris.Wrapf(err, "sqlite: insert run %s", sum.RunID)
}

// ListRuns returns the newest runs first. A non-positive limit uses the
// default.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, experiment, created_at, total_samples, baseline_accuracy, best_type, best_rate, summary
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// GetRun returns the run with id, or an error if there is none.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, experiment, created_at, total_samples, baseline_accuracy, best_type, best_rate, summary
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("run not found: %s", id)
	}
	return r, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var (
		r           Run
		bestType    string
		summaryJSON string
	)
	err := row.Scan(&r.ID, &r.Experiment, &r.CreatedAt, &r.TotalSamples,
		&r.BaselineAccuracy, &bestType, &r.BestRate, &summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.BestType = models.PerturbationType(bestType)

	r.Summary = &report.Summary{}
	if err := json.Unmarshal([]byte(summaryJSON), r.Summary); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal summary of run %s", r.ID)
	}
	return &r, nil
}
