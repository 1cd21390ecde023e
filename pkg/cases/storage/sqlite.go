package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pepper-hq/custodian/pkg/cases"
)

// SQLiteConfig contains configuration for the SQLite case store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/cases.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteRepository implements cases.Repository using SQLite.
type SQLiteRepository struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteRepository creates a new SQLite case store.
// It initializes the schema and enables WAL mode if configured.
func NewSQLiteRepository(config *SQLiteConfig) (*SQLiteRepository, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "cases.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, cases.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	r := &SQLiteRepository{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := r.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite case store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return r, nil
}

// initialize sets up the schema and enables WAL mode.
func (r *SQLiteRepository) initialize() error {
	if r.config.WALMode {
		if _, err := r.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return cases.NewStorageError("sqlite", "enable_wal", err)
		}
		r.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := r.config.BusyTimeout.Milliseconds()
	if _, err := r.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return cases.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := r.db.Exec(Schema); err != nil {
		return cases.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := r.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return cases.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := r.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return cases.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return cases.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	r.logger.Debug("schema version verified", "version", version)

	return nil
}

// Put inserts or replaces a case record.
func (r *SQLiteRepository) Put(ctx context.Context, record *cases.Record) error {
	query := `
		INSERT INTO cases (owner_id, case_id, title, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, case_id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		record.OwnerID, record.CaseID, record.Title, string(record.Status),
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return cases.NewStorageError("sqlite", "put", err)
	}

	return nil
}

// Get returns the record for (ownerID, caseID) or cases.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, ownerID, caseID string) (*cases.Record, error) {
	query := `
		SELECT owner_id, case_id, title, status, created_at, updated_at
		FROM cases WHERE owner_id = ? AND case_id = ?
	`

	record, err := scanCase(r.db.QueryRowContext(ctx, query, ownerID, caseID))
	if err == sql.ErrNoRows {
		return nil, cases.ErrNotFound
	}
	if err != nil {
		return nil, cases.NewStorageError("sqlite", "get", err)
	}

	return record, nil
}

// Delete removes the record for (ownerID, caseID).
func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, caseID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cases WHERE owner_id = ? AND case_id = ?`, ownerID, caseID)
	if err != nil {
		return cases.NewStorageError("sqlite", "delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return cases.NewStorageError("sqlite", "delete", err)
	}
	if affected == 0 {
		return cases.ErrNotFound
	}

	return nil
}

// FindClosedBefore returns closed records whose updated_at is at or before cutoff.
func (r *SQLiteRepository) FindClosedBefore(ctx context.Context, cutoff time.Time) ([]*cases.Record, error) {
	query := `
		SELECT owner_id, case_id, title, status, created_at, updated_at
		FROM cases WHERE status = ? AND updated_at <= ?
	`

	rows, err := r.db.QueryContext(ctx, query, string(cases.StatusClosed), cutoff)
	if err != nil {
		return nil, cases.NewStorageError("sqlite", "find_closed", err)
	}
	defer rows.Close()

	records := []*cases.Record{}
	for rows.Next() {
		record, err := scanCase(rows)
		if err != nil {
			return nil, cases.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, cases.NewStorageError("sqlite", "find_closed", err)
	}

	return records, nil
}

// Count returns the total number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&count)
	if err != nil {
		return 0, cases.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Close releases the database connection.
func (r *SQLiteRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return cases.NewStorageError("sqlite", "close", err)
	}

	r.logger.Info("SQLite case store closed")
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanCase.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCase scans a database row into a case record.
func scanCase(row rowScanner) (*cases.Record, error) {
	var record cases.Record
	var status string

	err := row.Scan(
		&record.OwnerID, &record.CaseID, &record.Title, &status,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = cases.Status(status)
	return &record, nil
}
