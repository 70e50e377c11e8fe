package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prediction_runs (
			id                TEXT PRIMARY KEY,
			timestamp         INTEGER NOT NULL,
			symbol            TEXT,
			input_path        TEXT NOT NULL,
			output_dir        TEXT NOT NULL,
			seed              INTEGER,
			test_fraction     REAL,
			r2_score          REAL,
			coefficients      TEXT,
			intercept         REAL,
			train_rows        INTEGER,
			test_rows         INTEGER,
			rows_before_clean INTEGER,
			rows_after_clean  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON prediction_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fetch_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT,
			source      TEXT,
			start_date  TEXT,
			end_date    TEXT,
			rows        INTEGER,
			output_path TEXT,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores a run; an empty ID is replaced by a new UUID and a zero CreatedAt by now.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	coef, err := json.Marshal(run.Coefficients)
	if err != nil {
		return fmt.Errorf("marshal coefficients: %w", err)
	}
	r2 := sql.NullFloat64{Float64: run.R2Score, Valid: !math.IsNaN(run.R2Score)}

	_, err = r.db.Exec(`INSERT INTO prediction_runs
		(id, timestamp, symbol, input_path, output_dir, seed, test_fraction,
		 r2_score, coefficients, intercept, train_rows, test_rows,
		 rows_before_clean, rows_after_clean)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Symbol, run.InputPath, run.OutputDir,
		run.Seed, run.TestFraction, r2, string(coef), run.Intercept,
		run.TrainRows, run.TestRows, run.RowsBeforeClean, run.RowsAfterClean,
	)
	return err
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_events
		(timestamp, symbol, source, start_date, end_date, rows, output_path, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().UnixNano(), evt.Symbol, evt.Source,
		evt.StartDate.Format("2006-01-02"), evt.EndDate.Format("2006-01-02"),
		evt.Rows, evt.OutputPath, evt.Error,
	)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (r *SQLiteRecorder) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, input_path, output_dir, seed, test_fraction,
		r2_score, coefficients, intercept, train_rows, test_rows, rows_before_clean, rows_after_clean
		FROM prediction_runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run  RunRecord
			ts   int64
			r2   sql.NullFloat64
			coef string
		)
		if err := rows.Scan(&run.ID, &ts, &run.Symbol, &run.InputPath, &run.OutputDir, &run.Seed,
			&run.TestFraction, &r2, &coef, &run.Intercept, &run.TrainRows, &run.TestRows,
			&run.RowsBeforeClean, &run.RowsAfterClean); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.Unix(0, ts)
		run.R2Score = math.NaN()
		if r2.Valid {
			run.R2Score = r2.Float64
		}
		if err := json.Unmarshal([]byte(coef), &run.Coefficients); err != nil {
			return nil, fmt.Errorf("decode coefficients of run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
