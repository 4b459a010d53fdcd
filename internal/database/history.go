package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/srcpgear/internal/model"
)

// DefaultFile is the database file name inside the data directory.
const DefaultFile = "srcpgear.db"

// ErrRunNotFound is returned when no stored run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB provides SQLite-based storage for optimisation runs.
//
// Design decision: Each run is stored as one JSON document next to a few
// indexed columns. The history is only ever listed or looked up by
// fingerprint, so a normalised schema would add joins without benefit.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DefaultFile)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		fingerprint TEXT NOT NULL,
		target_ratio REAL NOT NULL,
		objective TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		run_json TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run and returns its row ID.
// A missing RunID is filled with a new UUID and a zero CreatedAt with the
// current time; the run's ID is set to the new row ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	if run == nil {
		return 0, errors.New("run is nil")
	}
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	runJSON, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run: %w", err)
	}

	query := `
	INSERT INTO runs (run_id, fingerprint, target_ratio, objective, status, error, run_json, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		run.RunID,
		run.Fingerprint,
		run.Request.TargetRatio,
		run.Request.Objective.String(),
		string(run.Status),
		run.Error,
		string(runJSON),
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	run.ID = id
	return id, nil
}

// FindByFingerprint returns the newest deterministic run with the given
// fingerprint. Failed runs are never returned since they may have been
// caused by cancellation rather than by the request.
func (hdb *HistoryDB) FindByFingerprint(ctx context.Context, fingerprint string) (*model.Run, error) {
	query := `
	SELECT id, run_json, timestamp FROM runs
	WHERE fingerprint = ? AND status != ?
	ORDER BY id DESC
	LIMIT 1
	`

	row := hdb.db.QueryRowContext(ctx, query, fingerprint, string(model.RunStatusFailed))
	return scanRun(row)
}

// GetRunByID retrieves a run by its database ID.
func (hdb *HistoryDB) GetRunByID(ctx context.Context, id int64) (*model.Run, error) {
	query := `
	SELECT id, run_json, timestamp FROM runs
	WHERE id = ?
	`

	row := hdb.db.QueryRowContext(ctx, query, id)
	return scanRun(row)
}

// GetRunByRunID retrieves a run by its UUID.
func (hdb *HistoryDB) GetRunByRunID(ctx context.Context, runID string) (*model.Run, error) {
	query := `
	SELECT id, run_json, timestamp FROM runs
	WHERE run_id = ?
	`

	row := hdb.db.QueryRowContext(ctx, query, runID)
	return scanRun(row)
}

// ListRuns returns the newest runs first. A limit of zero or less returns
// every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	query := `
	SELECT id, run_json, timestamp FROM runs
	ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			continue // Skip malformed runs
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteRuns removes every stored run and returns how many were removed.
func (hdb *HistoryDB) DeleteRuns(ctx context.Context) (int64, error) {
	result, err := hdb.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	return result.RowsAffected()
}

// CountRuns returns the number of stored runs.
func (hdb *HistoryDB) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := hdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		id        int64
		runJSON   string
		timestamp string
	)
	err := row.Scan(&id, &runJSON, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run model.Run
	if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	run.ID = id
	if run.CreatedAt.IsZero() {
		run.CreatedAt = parseTimestamp(timestamp)
	}
	return &run, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
