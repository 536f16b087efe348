package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/toolsmith-dev/toolsmith/internal/catalog"
	"github.com/toolsmith-dev/toolsmith/internal/registry"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "state.db")); err != nil {
		t.Errorf("state.db should exist: %v", err)
	}
}

// --- Tool Repository ---

func toolRecord(name string) registry.Record {
	return registry.Record{
		Name:         name,
		Description:  "desc of " + name,
		Category:     catalog.CategoryData,
		ModulePath:   catalog.ModulePath(name, catalog.CategoryData),
		Object:       "SomeTool",
		Version:      "0.1.0",
		Root:         "/catalog",
		RegisteredAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestToolRepo_UpsertAndLoadAll(t *testing.T) {
	repo := NewToolRepo(testDB(t))

	if err := repo.Upsert(toolRecord("csv_parser")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(toolRecord("avg_calc")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	recs, err := repo.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d", len(recs))
	}
	if recs[0].Name != "avg_calc" || recs[1].Name != "csv_parser" {
		t.Errorf("order = %s, %s", recs[0].Name, recs[1].Name)
	}
	if recs[1].Category != catalog.CategoryData {
		t.Errorf("category = %v", recs[1].Category)
	}
	if recs[1].ModulePath != "tools.data_tools.csv_parser" {
		t.Errorf("module path = %q", recs[1].ModulePath)
	}
	if recs[1].RegisteredAt.IsZero() {
		t.Error("registered_at not restored")
	}
}

func TestToolRepo_UpsertReplaces(t *testing.T) {
	repo := NewToolRepo(testDB(t))

	rec := toolRecord("csv_parser")
	if err := repo.Upsert(rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rec.Version = "0.2.0"
	if err := repo.Upsert(rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	recs, err := repo.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d", len(recs))
	}
	if recs[0].Version != "0.2.0" {
		t.Errorf("version = %q", recs[0].Version)
	}
}

func TestToolRepo_Delete(t *testing.T) {
	repo := NewToolRepo(testDB(t))

	if err := repo.Upsert(toolRecord("csv_parser")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Delete("csv_parser"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	recs, err := repo.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("len = %d after delete", len(recs))
	}

	// Absent row: still no error.
	if err := repo.Delete("csv_parser"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

// --- Version Repository ---

func TestVersionRepo_SaveAndGet(t *testing.T) {
	repo := NewVersionRepo(testDB(t))

	id, err := repo.Save("csv_parser", "0.1.0", "class CSVParserTool: pass", "Initial version generated from specification.")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(id, "0.1.0-") {
		t.Errorf("version id = %q, want 0.1.0- prefix", id)
	}

	v, err := repo.Get("csv_parser", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Source != "class CSVParserTool: pass" {
		t.Errorf("source = %q", v.Source)
	}
	if v.Message != "Initial version generated from specification." {
		t.Errorf("message = %q", v.Message)
	}
}

func TestVersionRepo_SaveUniqueIDs(t *testing.T) {
	repo := NewVersionRepo(testDB(t))

	a, err := repo.Save("tool", "0.1.0", "v1", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := repo.Save("tool", "0.1.0", "v2", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a == b {
		t.Fatalf("same version saved twice produced identical id %q", a)
	}
}

func TestVersionRepo_HistoryNewestFirst(t *testing.T) {
	repo := NewVersionRepo(testDB(t))

	if _, err := repo.Save("tool", "0.1.0", "v1", "first"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Save("tool", "0.1.1", "v2", "second"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	hist, err := repo.History("tool")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("len = %d", len(hist))
	}
	if hist[0].Version != "0.1.1" {
		t.Errorf("newest first violated: %+v", hist)
	}
	if hist[0].Source != "" {
		t.Error("history should omit source text")
	}
}

func TestVersionRepo_GetNotFound(t *testing.T) {
	repo := NewVersionRepo(testDB(t))
	_, err := repo.Get("tool", "0.1.0-deadbeef")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got: %v", err)
	}
}

func TestVersionRepo_HistoryEmpty(t *testing.T) {
	repo := NewVersionRepo(testDB(t))
	hist, err := repo.History("missing")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 0 {
		t.Fatalf("len = %d", len(hist))
	}
}
