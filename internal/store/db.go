// Package store persists the tool index and version history in SQLite.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlite3.Conn
}

// Open creates the data directory if needed, opens state.db, enables WAL
// and foreign keys, and runs schema migrations.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dataDir, err)
	}

	dbPath := filepath.Join(dataDir, "state.db")
	conn, err := sqlite3.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Conn returns the underlying sqlite3 connection.
func (db *DB) Conn() *sqlite3.Conn {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS tools (
			name          TEXT PRIMARY KEY,
			description   TEXT NOT NULL,
			category      TEXT NOT NULL,
			module_path   TEXT NOT NULL,
			object        TEXT NOT NULL,
			version       TEXT NOT NULL,
			root          TEXT NOT NULL,
			registered_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tool_versions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_name  TEXT NOT NULL,
			version_id TEXT NOT NULL,
			version    TEXT NOT NULL,
			source     TEXT NOT NULL,
			message    TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tool_versions_id ON tool_versions(tool_name, version_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_versions_name ON tool_versions(tool_name, id)`,
	}

	for _, stmt := range ddl {
		if err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}
