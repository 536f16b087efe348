package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// ErrVersionNotFound is returned when a tool has no version with the
// requested identifier.
var ErrVersionNotFound = errors.New("version not found")

// Version is one saved snapshot of a tool's source.
type Version struct {
	VersionID string
	Version   string
	Source    string
	Message   string
	CreatedAt time.Time
}

// VersionRepo keeps the full source history of every tool.
type VersionRepo struct {
	conn *sqlite3.Conn
}

func NewVersionRepo(db *DB) *VersionRepo {
	return &VersionRepo{conn: db.Conn()}
}

// Save stores a snapshot and returns its version identifier. The identifier
// combines the declared semantic version with a random suffix, so saving
// the same version twice never collides.
func (r *VersionRepo) Save(toolName, version, source, message string) (string, error) {
	versionID := fmt.Sprintf("%s-%s", version, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	stmt, _, err := r.conn.Prepare(`INSERT INTO tool_versions
		(tool_name, version_id, version, source, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	stmt.BindText(1, toolName)
	stmt.BindText(2, versionID)
	stmt.BindText(3, version)
	stmt.BindText(4, source)
	stmt.BindText(5, message)
	stmt.BindText(6, time.Now().UTC().Format(time.RFC3339))
	stmt.Step()
	if err := stmt.Close(); err != nil {
		return "", err
	}
	return versionID, nil
}

// History returns every saved snapshot of a tool, newest first. Source text
// is omitted; fetch a single version with Get when the code is needed.
func (r *VersionRepo) History(toolName string) ([]Version, error) {
	stmt, _, err := r.conn.Prepare(`SELECT version_id, version, message, created_at
		FROM tool_versions WHERE tool_name = ? ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	stmt.BindText(1, toolName)
	var versions []Version
	for stmt.Step() {
		v := Version{
			VersionID: stmt.ColumnText(0),
			Version:   stmt.ColumnText(1),
			Message:   stmt.ColumnText(2),
		}
		if ts, err := time.Parse(time.RFC3339, stmt.ColumnText(3)); err == nil {
			v.CreatedAt = ts
		}
		versions = append(versions, v)
	}
	return versions, stmt.Err()
}

// Get returns one snapshot including its source, or ErrVersionNotFound.
func (r *VersionRepo) Get(toolName, versionID string) (Version, error) {
	stmt, _, err := r.conn.Prepare(`SELECT version_id, version, source, message, created_at
		FROM tool_versions WHERE tool_name = ? AND version_id = ?`)
	if err != nil {
		return Version{}, err
	}
	defer stmt.Close()

	stmt.BindText(1, toolName)
	stmt.BindText(2, versionID)
	if !stmt.Step() {
		if err := stmt.Err(); err != nil {
			return Version{}, err
		}
		return Version{}, fmt.Errorf("tool %q version %q: %w", toolName, versionID, ErrVersionNotFound)
	}

	v := Version{
		VersionID: stmt.ColumnText(0),
		Version:   stmt.ColumnText(1),
		Source:    stmt.ColumnText(2),
		Message:   stmt.ColumnText(3),
	}
	if ts, err := time.Parse(time.RFC3339, stmt.ColumnText(4)); err == nil {
		v.CreatedAt = ts
	}
	return v, nil
}
