package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pepper-hq/custodian/pkg/cases"
)

// PostgresConfig contains configuration for the Postgres case store.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	// SSLMode is the libpq sslmode value ("disable", "require", etc.).
	// Default: require
	SSLMode string

	// MaxConns is the maximum pool size. Default: 10
	MaxConns int32
}

// DefaultPostgresConfig returns the default Postgres configuration.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "pepper",
		User:     "pepper",
		SSLMode:  "require",
		MaxConns: 10,
	}
}

// postgresSchema creates the cases table. The partial index on closed cases
// backs the retention sweep query.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS cases (
	owner_id   TEXT NOT NULL,
	case_id    TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (owner_id, case_id)
);

CREATE INDEX IF NOT EXISTS idx_cases_closed_updated
	ON cases (updated_at) WHERE status = 'closed';
`

// PostgresRepository implements cases.Repository using a pgx connection pool.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRepository connects to Postgres, verifies the connection, and
// ensures the schema exists.
func NewPostgresRepository(ctx context.Context, config *PostgresConfig) (*PostgresRepository, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}

	logger := slog.Default().With("component", "cases.storage.postgres")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.Database, config.SSLMode)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, cases.NewStorageError("postgres", "parse_config", err)
	}
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, cases.NewStorageError("postgres", "connect", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, cases.NewStorageError("postgres", "ping", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, cases.NewStorageError("postgres", "create_schema", err)
	}

	logger.Info("Postgres case store initialized",
		"host", config.Host,
		"database", config.Database,
		"max_conns", poolConfig.MaxConns,
	)

	return &PostgresRepository{pool: pool, logger: logger}, nil
}

// Put inserts or replaces a case record.
func (r *PostgresRepository) Put(ctx context.Context, record *cases.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cases (owner_id, case_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, case_id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, record.OwnerID, record.CaseID, record.Title, string(record.Status),
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return cases.NewStorageError("postgres", "put", err)
	}

	return nil
}

// Get returns the record for (ownerID, caseID) or cases.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, ownerID, caseID string) (*cases.Record, error) {
	var record cases.Record
	var status string

	row := r.pool.QueryRow(ctx, `
		SELECT owner_id, case_id, title, status, created_at, updated_at
		FROM cases WHERE owner_id = $1 AND case_id = $2
	`, ownerID, caseID)

	err := row.Scan(&record.OwnerID, &record.CaseID, &record.Title, &status,
		&record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cases.ErrNotFound
	}
	if err != nil {
		return nil, cases.NewStorageError("postgres", "get", err)
	}

	record.Status = cases.Status(status)
	return &record, nil
}

// Delete removes the record for (ownerID, caseID).
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, caseID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cases WHERE owner_id = $1 AND case_id = $2`, ownerID, caseID)
	if err != nil {
		return cases.NewStorageError("postgres", "delete", err)
	}
	if tag.RowsAffected() == 0 {
		return cases.ErrNotFound
	}

	return nil
}

// FindClosedBefore returns closed records whose updated_at is at or before cutoff.
func (r *PostgresRepository) FindClosedBefore(ctx context.Context, cutoff time.Time) ([]*cases.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT owner_id, case_id, title, status, created_at, updated_at
		FROM cases WHERE status = $1 AND updated_at <= $2
	`, string(cases.StatusClosed), cutoff)
	if err != nil {
		return nil, cases.NewStorageError("postgres", "find_closed", err)
	}
	defer rows.Close()

	records := []*cases.Record{}
	for rows.Next() {
		var record cases.Record
		var status string
		if err := rows.Scan(&record.OwnerID, &record.CaseID, &record.Title, &status,
			&record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, cases.NewStorageError("postgres", "scan", err)
		}
		record.Status = cases.Status(status)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, cases.NewStorageError("postgres", "find_closed", err)
	}

	return records, nil
}

// Count returns the total number of stored records.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&count); err != nil {
		return 0, cases.NewStorageError("postgres", "count", err)
	}

	return count, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	r.logger.Info("Postgres case store closed")
	return nil
}
