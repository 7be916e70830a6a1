// Package runs persists baseline evaluation reports so successive runs
// against evolving datasets can be compared.
package runs

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rpv-lab/embrittlement/internal/baseline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	dataset_path  TEXT NOT NULL,
	samples       INTEGER NOT NULL,
	dropped       INTEGER NOT NULL,
	mn_defaulted  INTEGER NOT NULL,
	rmse          REAL NOT NULL,
	mae           REAL NOT NULL,
	bias          REAL NOT NULL,
	threshold     REAL NOT NULL,
	validated     INTEGER NOT NULL,
	created_at    TEXT NOT NULL
)`

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) the run history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize run history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save inserts a report into the history. A missing run ID is assigned.
func (s *Store) Save(r *baseline.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, dataset_path, samples, dropped, mn_defaulted,
			rmse, mae, bias, threshold, validated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.DatasetPath, r.Samples, r.Dropped, boolToInt(r.MnDefaulted),
		r.RMSE, r.MAE, r.Bias, r.Threshold, boolToInt(r.Validated), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.RunID, err)
	}
	return nil
}

// List returns all recorded runs, newest first.
func (s *Store) List() ([]*baseline.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT run_id, dataset_path, samples, dropped, mn_defaulted,
			rmse, mae, bias, threshold, validated, created_at
		 FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var reports []*baseline.Report
	for rows.Next() {
		var r baseline.Report
		var mnDefaulted, validated int
		if err := rows.Scan(&r.RunID, &r.DatasetPath, &r.Samples, &r.Dropped, &mnDefaulted,
			&r.RMSE, &r.MAE, &r.Bias, &r.Threshold, &validated, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.MnDefaulted = mnDefaulted != 0
		r.Validated = validated != 0
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}

// Get retrieves a single run by ID.
func (s *Store) Get(runID string) (*baseline.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r baseline.Report
	var mnDefaulted, validated int
	err := s.db.QueryRow(
		`SELECT run_id, dataset_path, samples, dropped, mn_defaulted,
			rmse, mae, bias, threshold, validated, created_at
		 FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.DatasetPath, &r.Samples, &r.Dropped, &mnDefaulted,
			&r.RMSE, &r.MAE, &r.Bias, &r.Threshold, &validated, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("run %s not found: %w", runID, err)
	}
	r.MnDefaulted = mnDefaulted != 0
	r.Validated = validated != 0
	return &r, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
