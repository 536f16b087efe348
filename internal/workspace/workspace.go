// Package workspace provides file operations scoped to a catalog root
// directory.
//
// All paths are workspace-relative with forward slashes. Resolution rejects
// traversal outside the root and symlinked targets, so generated artifacts
// can never escape the tree they were resolved against.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrWrite marks filesystem failures while materializing catalog artifacts.
// Callers match it with errors.Is to distinguish write failures from
// synthesis or validation problems.
var ErrWrite = errors.New("workspace write failed")

// markerFile makes a directory importable as a package.
const markerFile = "__init__.py"

// Workspace implements file operations scoped to a root directory.
type Workspace struct {
	rootPath string
	logger   *slog.Logger
}

// New creates a new Workspace. Call Initialize to create the directory.
func New(rootPath string, logger *slog.Logger) *Workspace {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		abs = rootPath
	}
	return &Workspace{rootPath: abs, logger: logger}
}

func (w *Workspace) log() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return slog.Default()
}

// Initialize creates the workspace root directory if it does not exist.
func (w *Workspace) Initialize() error {
	if err := os.MkdirAll(w.rootPath, 0o755); err != nil {
		return fmt.Errorf("workspace initialize: %w: %w", ErrWrite, err)
	}
	w.log().Debug("workspace initialized", "path", w.rootPath)
	return nil
}

// RootPath returns the absolute root path of the workspace.
func (w *Workspace) RootPath() string { return w.rootPath }

// Abs returns the absolute path for a workspace-relative path.
func (w *Workspace) Abs(rel string) string {
	return filepath.Join(w.rootPath, filepath.FromSlash(rel))
}

// ReadFile returns the content of a workspace-relative file.
func (w *Workspace) ReadFile(rel string) (string, error) {
	abs, err := w.resolve(rel)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", rel, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", rel, err)
	}
	return string(data), nil
}

// FileExists reports whether a workspace-relative regular file exists.
func (w *Workspace) FileExists(rel string) bool {
	abs, err := w.resolve(rel)
	if err != nil {
		return false
	}
	info, err := os.Lstat(abs)
	return err == nil && info.Mode().IsRegular()
}

// WriteFile writes content to a workspace-relative path, creating parent
// directories as needed. Failures wrap ErrWrite.
func (w *Workspace) WriteFile(rel, content string) error {
	abs, err := w.resolve(rel)
	if err != nil {
		return fmt.Errorf("write %q: %w: %w", rel, ErrWrite, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("write %q: mkdir: %w: %w", rel, ErrWrite, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %q: %w: %w", rel, ErrWrite, err)
	}
	w.log().Debug("workspace write", "op", "workspace.write", "path", rel, "contentLen", len(content))
	return nil
}

// RemoveFile deletes a workspace-relative file. Removing a file that does
// not exist is not an error.
func (w *Workspace) RemoveFile(rel string) error {
	abs, err := w.resolve(rel)
	if err != nil {
		return fmt.Errorf("remove %q: %w: %w", rel, ErrWrite, err)
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w: %w", rel, ErrWrite, err)
	}
	return nil
}

// ListDir returns the names of regular files in a workspace-relative
// directory, sorted. A missing directory yields an empty list.
func (w *Workspace) ListDir(rel string) ([]string, error) {
	abs, err := w.resolve(rel)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", rel, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %q: %w", rel, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// EnsurePackagePath creates every directory level needed for the file at
// rel and drops an empty package marker in each level that belongs to an
// importable tree (tools/, tests/). Existing markers are never rewritten.
// Idempotent and safe under concurrent invocation: an already-existing
// directory or marker is not an error.
func (w *Workspace) EnsurePackagePath(rel string) error {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return nil
	}

	absDir, err := w.resolve(dir)
	if err != nil {
		return fmt.Errorf("ensure path %q: %w: %w", rel, ErrWrite, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return fmt.Errorf("ensure path %q: mkdir: %w: %w", rel, ErrWrite, err)
	}

	segments := strings.Split(dir, "/")
	if !isImportableTree(segments[0]) {
		return nil
	}

	current := ""
	for _, seg := range segments {
		current = path.Join(current, seg)
		marker := filepath.Join(w.rootPath, filepath.FromSlash(current), markerFile)
		f, err := os.OpenFile(marker, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return fmt.Errorf("ensure path %q: marker %s: %w: %w", rel, current, ErrWrite, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("ensure path %q: marker %s: %w: %w", rel, current, ErrWrite, err)
		}
	}
	return nil
}

func isImportableTree(topSegment string) bool {
	return topSegment == "tools" || topSegment == "tests"
}

// ---------------------------------------------------------------------------
// Internal: path security
// ---------------------------------------------------------------------------

func (w *Workspace) resolve(rel string) (string, error) {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return "", fmt.Errorf("empty path")
	}

	resolved := filepath.Join(w.rootPath, filepath.FromSlash(trimmed))
	relBack, err := filepath.Rel(w.rootPath, resolved)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rel, err)
	}
	if relBack == ".." || strings.HasPrefix(relBack, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes workspace root", rel)
	}

	// Reject symlinked targets; missing targets are fine (writes create them).
	if info, err := os.Lstat(resolved); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("path %q is a symlink", rel)
	}

	return resolved, nil
}
