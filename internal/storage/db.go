// Package storage keeps a local history of estimation runs in a sqlite
// database under the project's .studioscan directory, so successive
// estimates of the same codebase can be compared over time.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dbFileName = "studioscan.db"

// DB wraps the run-history database.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the run-history database under
// <projectRoot>/.studioscan/.
func Open(projectRoot string) (*DB, error) {
	dir := filepath.Join(projectRoot, ".studioscan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, dbFileName)
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := d.conn.Exec(p); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS estimation_runs (
		run_id          TEXT PRIMARY KEY,
		created_at      TEXT NOT NULL,
		tool_version    TEXT NOT NULL DEFAULT '',
		feature_count   INTEGER NOT NULL,
		component_count INTEGER NOT NULL,
		total_hours     REAL NOT NULL,
		snapshot_path   TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON estimation_runs(created_at);
	`
	if _, err := d.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database.
func (d *DB) Close() error {
	return d.conn.Close()
}
