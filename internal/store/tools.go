package store

import (
	"time"

	"github.com/ncruces/go-sqlite3"

	"github.com/toolsmith-dev/toolsmith/internal/catalog"
	"github.com/toolsmith-dev/toolsmith/internal/registry"
)

// ToolRepo persists the registry index, one row per tool.
type ToolRepo struct {
	conn *sqlite3.Conn
}

func NewToolRepo(db *DB) *ToolRepo {
	return &ToolRepo{conn: db.Conn()}
}

// Upsert writes or replaces the row for rec.Name.
func (r *ToolRepo) Upsert(rec registry.Record) error {
	stmt, _, err := r.conn.Prepare(`INSERT INTO tools
		(name, description, category, module_path, object, version, root, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			category = excluded.category,
			module_path = excluded.module_path,
			object = excluded.object,
			version = excluded.version,
			root = excluded.root,
			registered_at = excluded.registered_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	stmt.BindText(1, rec.Name)
	stmt.BindText(2, rec.Description)
	stmt.BindText(3, rec.Category.Dir())
	stmt.BindText(4, rec.ModulePath)
	stmt.BindText(5, rec.Object)
	stmt.BindText(6, rec.Version)
	stmt.BindText(7, rec.Root)
	stmt.BindText(8, rec.RegisteredAt.UTC().Format(time.RFC3339))
	stmt.Step()
	return stmt.Close()
}

// Delete removes the row for name. Deleting an absent row is not an error.
func (r *ToolRepo) Delete(name string) error {
	stmt, _, err := r.conn.Prepare("DELETE FROM tools WHERE name = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()
	stmt.BindText(1, name)
	stmt.Step()
	return stmt.Close()
}

// LoadAll returns every persisted record, ordered by name. Feeds
// registry.LoadIndex at startup.
func (r *ToolRepo) LoadAll() ([]registry.Record, error) {
	stmt, _, err := r.conn.Prepare(`SELECT name, description, category, module_path,
		object, version, root, registered_at FROM tools ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var recs []registry.Record
	for stmt.Step() {
		rec := registry.Record{
			Name:        stmt.ColumnText(0),
			Description: stmt.ColumnText(1),
			Category:    catalog.ParseCategory(stmt.ColumnText(2)),
			ModulePath:  stmt.ColumnText(3),
			Object:      stmt.ColumnText(4),
			Version:     stmt.ColumnText(5),
			Root:        stmt.ColumnText(6),
		}
		if ts, err := time.Parse(time.RFC3339, stmt.ColumnText(7)); err == nil {
			rec.RegisteredAt = ts
		}
		recs = append(recs, rec)
	}
	return recs, stmt.Err()
}
