package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Compile-time check.
var _ Runner = (*PytestRunner)(nil)

// Runner executes a synthesized test suite against synthesized tool code in
// isolation, before anything is written into the catalog. It returns
// (passed, output, err): err reports only infrastructure failures, a clean
// run with failing tests is (false, output, nil).
type Runner interface {
	Run(ctx context.Context, toolCode, testCode string) (bool, string, error)
}

// PytestRunner runs the suite with a real pytest in a throwaway directory.
// The tool code is written as tool_module.py, the test's placeholder import
// is rewritten to match, and the directory goes on PYTHONPATH so the import
// resolves without touching the catalog.
type PytestRunner struct {
	Pytest string // pytest binary, defaults to "pytest"
	Logger *slog.Logger
}

func (r *PytestRunner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *PytestRunner) Run(ctx context.Context, toolCode, testCode string) (bool, string, error) {
	dir, err := os.MkdirTemp("", "toolsmith-validate-*")
	if err != nil {
		return false, "", fmt.Errorf("validate: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	toolPath := filepath.Join(dir, "tool_module.py")
	if err := os.WriteFile(toolPath, []byte(toolCode), 0o644); err != nil {
		return false, "", fmt.Errorf("validate: write tool module: %w", err)
	}

	testPath := filepath.Join(dir, "test_tool.py")
	rewritten := strings.ReplaceAll(testCode, "from your_tool_module import", "from tool_module import")
	if err := os.WriteFile(testPath, []byte(rewritten), 0o644); err != nil {
		return false, "", fmt.Errorf("validate: write test module: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "__init__.py"), nil, 0o644); err != nil {
		return false, "", fmt.Errorf("validate: write package marker: %w", err)
	}

	pytest := r.Pytest
	if pytest == "" {
		pytest = "pytest"
	}

	cmd := exec.CommandContext(ctx, pytest, "-xvs", testPath)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "PYTHONPATH="+dir)

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit means the tests ran and failed.
			r.log().Debug("validation tests failed", "op", "validate.run", "exitCode", exitErr.ExitCode())
			return false, string(out), nil
		}
		return false, string(out), fmt.Errorf("validate: run pytest: %w", err)
	}

	return true, string(out), nil
}
