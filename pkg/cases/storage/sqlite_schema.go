package storage

// SchemaVersion is the current SQLite schema version.
const SchemaVersion = 1

// Schema creates the cases table and supporting indexes.
// The (status, updated_at) index backs the retention sweep query.
const Schema = `
CREATE TABLE IF NOT EXISTS cases (
	owner_id   TEXT NOT NULL,
	case_id    TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (owner_id, case_id)
);

CREATE INDEX IF NOT EXISTS idx_cases_status_updated ON cases (status, updated_at);
CREATE INDEX IF NOT EXISTS idx_cases_owner ON cases (owner_id);

CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// InsertSchemaVersion records the schema version, ignoring duplicates.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion returns the highest applied schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version;`
