// Package registry tracks generated tools by name and maps each one to its
// importable location. The registry is plain in-memory state: it is
// constructed explicitly and handed to whoever needs lookups, and it never
// touches disk itself. Persistence, when the application wants it, goes
// through Snapshot and LoadIndex.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/toolsmith-dev/toolsmith/internal/catalog"
)

var (
	// ErrNotFound is returned when a tool name has no registry entry.
	ErrNotFound = errors.New("tool not found")

	// ErrDuplicateName is returned when a name is already registered with a
	// different module path. Re-registering an identical record is a no-op.
	ErrDuplicateName = errors.New("duplicate tool name")
)

// Record describes one registered tool.
type Record struct {
	Name         string
	Description  string
	Category     catalog.Category
	ModulePath   string // dotted import path of the generated module
	Object       string // class or callable name inside the module
	Version      string
	Root         string // catalog root the artifacts live under
	RegisteredAt time.Time
}

// Registry is a name → record map guarded by a read/write mutex. No I/O
// happens under the lock, so long-running synthesis or test runs never
// block lookups.
type Registry struct {
	mu      sync.RWMutex
	records map[string]Record
	logger  *slog.Logger
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		records: make(map[string]Record),
		logger:  logger,
	}
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Register adds rec to the registry. A name that is already present with a
// different module path fails with ErrDuplicateName; registering over an
// entry with the same module path replaces it, which is how updates land.
func (r *Registry) Register(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[rec.Name]; ok && existing.ModulePath != rec.ModulePath {
		return fmt.Errorf("register %q: %w: already maps to %s", rec.Name, ErrDuplicateName, existing.ModulePath)
	}

	r.records[rec.Name] = rec
	r.log().Info("tool registered", "name", rec.Name, "category", rec.Category.Dir(), "module", rec.ModulePath, "version", rec.Version)
	return nil
}

// Get returns the record for name, or ErrNotFound.
func (r *Registry) Get(name string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return Record{}, fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	return rec, nil
}

// Exists reports whether name is registered. Never fails.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[name]
	return ok
}

// Unregister removes name from the registry. Removing an absent name is a
// no-op, so removal is idempotent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, name)
}

// List returns all records sorted by name.
func (r *Registry) List() []Record {
	return r.snapshotSorted(nil)
}

// ListCategory returns the records in one catalog bucket, sorted by name.
func (r *Registry) ListCategory(cat catalog.Category) []Record {
	return r.snapshotSorted(func(rec Record) bool { return rec.Category == cat })
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Snapshot returns a copy of every record, sorted by name. Used by the
// application to persist the index.
func (r *Registry) Snapshot() []Record {
	return r.snapshotSorted(nil)
}

// LoadIndex replaces the registry contents with recs. Used at startup to
// rehydrate from a persisted index.
func (r *Registry) LoadIndex(recs []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]Record, len(recs))
	for _, rec := range recs {
		r.records[rec.Name] = rec
	}
}

func (r *Registry) snapshotSorted(keep func(Record) bool) []Record {
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
