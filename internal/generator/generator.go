// Package generator runs the synthesis pipeline: specification in, three
// catalog artifacts out. Every tool passes a security scan and, when a
// runner is configured, its own generated test suite before a single byte
// lands in the catalog.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/toolsmith-dev/toolsmith/internal/catalog"
	"github.com/toolsmith-dev/toolsmith/internal/registry"
	"github.com/toolsmith-dev/toolsmith/internal/retry"
	"github.com/toolsmith-dev/toolsmith/internal/store"
	"github.com/toolsmith-dev/toolsmith/internal/synth"
	"github.com/toolsmith-dev/toolsmith/internal/validate"
	"github.com/toolsmith-dev/toolsmith/internal/workspace"
)

var (
	// ErrSynthesis is returned when the model fails to produce usable code
	// after every configured attempt, or produces code the security scan
	// rejects.
	ErrSynthesis = errors.New("synthesis failed")

	// ErrSynthesisTimeout is returned when a single synthesis call exceeds
	// the per-call timeout.
	ErrSynthesisTimeout = errors.New("synthesis timed out")

	// ErrValidation is returned when the generated test suite fails. The
	// catalog is left untouched.
	ErrValidation = errors.New("validation failed")
)

const (
	defaultAttempts  = 3
	defaultTimeout   = 2 * time.Minute
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 30 * time.Second
	initialVersion   = "0.1.0"
)

// ToolSpec is the input to tool creation. Description is the free-form
// specification handed to the model; Name and Category, when set, override
// whatever the generated code declares.
type ToolSpec struct {
	Description string
	Name        string
	Category    string
}

// Config wires the pipeline's collaborators. Synth, Registry, and Workspace
// are required. A nil Runner skips test validation; nil repos skip
// persistence.
type Config struct {
	Synth     synth.Synthesizer
	Registry  *registry.Registry
	Workspace *workspace.Workspace
	Runner    validate.Runner
	Tools     *store.ToolRepo
	Versions  *store.VersionRepo

	Timeout   time.Duration // per synthesis call
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Logger    *slog.Logger
}

// Generator orchestrates synthesis, validation, catalog writes, and
// registration.
type Generator struct {
	synth    synth.Synthesizer
	reg      *registry.Registry
	ws       *workspace.Workspace
	runner   validate.Runner
	tools    *store.ToolRepo
	versions *store.VersionRepo

	timeout   time.Duration
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
	logger    *slog.Logger
}

// New creates a Generator from cfg, filling in defaults for unset knobs.
func New(cfg Config) *Generator {
	g := &Generator{
		synth:     cfg.Synth,
		reg:       cfg.Registry,
		ws:        cfg.Workspace,
		runner:    cfg.Runner,
		tools:     cfg.Tools,
		versions:  cfg.Versions,
		timeout:   cfg.Timeout,
		attempts:  cfg.Attempts,
		baseDelay: cfg.BaseDelay,
		maxDelay:  cfg.MaxDelay,
		logger:    cfg.Logger,
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	if g.attempts < 1 {
		g.attempts = defaultAttempts
	}
	if g.baseDelay <= 0 {
		g.baseDelay = defaultBaseDelay
	}
	if g.maxDelay <= 0 {
		g.maxDelay = defaultMaxDelay
	}
	return g
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// CreateTool synthesizes a new tool from spec and writes its three
// artifacts into the catalog. With register true the tool also lands in
// the registry and the persistent index. It returns the absolute path of
// the implementation file.
func (g *Generator) CreateTool(ctx context.Context, spec ToolSpec, register bool) (string, error) {
	deps := g.dependencySummary()

	raw, err := g.synthesize(ctx, "tool", func(ctx context.Context) (string, error) {
		return g.synth.GenerateTool(ctx, spec.Description, deps)
	})
	if err != nil {
		return "", err
	}
	code := synth.ExtractCodeBlock(raw)
	if code == "" {
		return "", fmt.Errorf("create tool: empty model reply: %w", ErrSynthesis)
	}

	if ok, reason := validate.CheckSecurity(code); !ok {
		return "", fmt.Errorf("create tool: %s: %w", reason, ErrSynthesis)
	}

	md, err := validate.ExtractMetadata(code)
	if err != nil {
		return "", fmt.Errorf("create tool: %w: %w", ErrSynthesis, err)
	}

	name := md.ToolName
	if spec.Name != "" {
		if name, err = catalog.SanitizeName(spec.Name); err != nil {
			return "", fmt.Errorf("create tool: %w", err)
		}
	}
	cat := md.Category
	if spec.Category != "" {
		cat = catalog.ParseCategory(spec.Category)
	}

	testCode, doc, err := g.synthesizeCompanions(ctx, code)
	if err != nil {
		return "", err
	}

	version := extractVersion(code)

	rec := registry.Record{
		Name:         name,
		Description:  firstLineOf(spec.Description),
		Category:     cat,
		ModulePath:   catalog.ModulePath(name, cat),
		Object:       md.ClassName,
		Version:      version,
		Root:         g.ws.RootPath(),
		RegisteredAt: time.Now().UTC(),
	}

	if register {
		// Claim the name before any file lands so a duplicate leaves the
		// catalog untouched.
		if err := g.reg.Register(rec); err != nil {
			return "", fmt.Errorf("create tool: %w", err)
		}
	}

	implPath, err := g.writeArtifacts(rec, code, testCode, doc)
	if err != nil {
		if register {
			g.reg.Unregister(rec.Name)
		}
		return "", err
	}

	if register {
		if err := g.persist(rec, code, "Initial version generated from specification."); err != nil {
			return "", err
		}
	}

	g.log().Info("tool created", "op", "generator.create", "name", name, "category", cat.Dir(), "registered", register)
	return implPath, nil
}

// UpdateTool regenerates an existing tool against an update specification.
// The tool keeps its name, category, and module path; the version bumps.
func (g *Generator) UpdateTool(ctx context.Context, name, updateSpec string) (string, error) {
	rec, err := g.reg.Get(name)
	if err != nil {
		return "", fmt.Errorf("update tool: %w", err)
	}

	paths := catalog.Resolve(rec.Name, rec.Category)
	current, err := g.ws.ReadFile(paths.Impl)
	if err != nil {
		return "", fmt.Errorf("update tool %q: read current source: %w", name, err)
	}

	deps := g.dependencySummary()
	raw, err := g.synthesize(ctx, "update", func(ctx context.Context) (string, error) {
		return g.synth.GenerateUpdate(ctx, current, updateSpec, deps)
	})
	if err != nil {
		return "", err
	}
	code := synth.ExtractCodeBlock(raw)
	if code == "" {
		return "", fmt.Errorf("update tool %q: empty model reply: %w", name, ErrSynthesis)
	}

	if ok, reason := validate.CheckSecurity(code); !ok {
		return "", fmt.Errorf("update tool %q: %s: %w", name, reason, ErrSynthesis)
	}

	md, err := validate.ExtractMetadata(code)
	if err != nil {
		return "", fmt.Errorf("update tool %q: %w: %w", name, ErrSynthesis, err)
	}

	testCode, doc, err := g.synthesizeCompanions(ctx, code)
	if err != nil {
		return "", err
	}

	version := extractVersion(code)
	if version == rec.Version {
		version = bumpPatch(rec.Version)
	}

	rec.Description = firstLineOf(updateSpec)
	rec.Object = md.ClassName
	rec.Version = version
	rec.RegisteredAt = time.Now().UTC()

	implPath, err := g.writeArtifacts(rec, code, testCode, doc)
	if err != nil {
		return "", err
	}

	// Same name and module path: registration replaces the old entry.
	if err := g.reg.Register(rec); err != nil {
		return "", fmt.Errorf("update tool %q: %w", name, err)
	}
	if err := g.persist(rec, code, "Updated: "+truncate(updateSpec, 50)); err != nil {
		return "", err
	}

	g.log().Info("tool updated", "op", "generator.update", "name", name, "version", version)
	return implPath, nil
}

// RestoreVersion rewrites a tool's implementation from a saved snapshot
// and re-registers it at that version.
func (g *Generator) RestoreVersion(name, versionID string) (string, error) {
	if g.versions == nil {
		return "", fmt.Errorf("restore %q: version history not configured", name)
	}
	v, err := g.versions.Get(name, versionID)
	if err != nil {
		return "", fmt.Errorf("restore %q: %w", name, err)
	}
	rec, err := g.reg.Get(name)
	if err != nil {
		return "", fmt.Errorf("restore %q: %w", name, err)
	}

	paths := catalog.Resolve(rec.Name, rec.Category)
	if err := g.ws.EnsurePackagePath(paths.Impl); err != nil {
		return "", fmt.Errorf("restore %q: %w", name, err)
	}
	if err := g.ws.WriteFile(paths.Impl, v.Source); err != nil {
		return "", fmt.Errorf("restore %q: %w", name, err)
	}

	rec.Version = v.Version
	rec.RegisteredAt = time.Now().UTC()
	if err := g.reg.Register(rec); err != nil {
		return "", fmt.Errorf("restore %q: %w", name, err)
	}
	if g.tools != nil {
		if err := g.tools.Upsert(rec); err != nil {
			return "", fmt.Errorf("restore %q: persist: %w", name, err)
		}
	}

	g.log().Info("tool restored", "op", "generator.restore", "name", name, "versionID", versionID)
	return g.ws.Abs(paths.Impl), nil
}

// DeleteTool removes a tool's three artifacts, its registry entry, and its
// persisted index row. Version history is kept.
func (g *Generator) DeleteTool(name string) error {
	rec, err := g.reg.Get(name)
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}

	paths := catalog.Resolve(rec.Name, rec.Category)
	for _, rel := range []string{paths.Impl, paths.Test, paths.Doc} {
		if err := g.ws.RemoveFile(rel); err != nil {
			return fmt.Errorf("delete tool %q: %w", name, err)
		}
	}

	g.reg.Unregister(name)
	if g.tools != nil {
		if err := g.tools.Delete(name); err != nil {
			return fmt.Errorf("delete tool %q: persist: %w", name, err)
		}
	}

	g.log().Info("tool deleted", "op", "generator.delete", "name", name)
	return nil
}

// ---------------------------------------------------------------------------
// Internal: pipeline stages
// ---------------------------------------------------------------------------

// synthesizeCompanions generates the test suite, runs it when a runner is
// configured, and generates documentation. A failing suite aborts before
// documentation is spent on a dead tool.
func (g *Generator) synthesizeCompanions(ctx context.Context, code string) (testCode, doc string, err error) {
	rawTests, err := g.synthesize(ctx, "tests", func(ctx context.Context) (string, error) {
		return g.synth.GenerateTests(ctx, code)
	})
	if err != nil {
		return "", "", err
	}
	testCode = synth.ExtractCodeBlock(rawTests)

	if g.runner != nil {
		passed, output, err := g.runner.Run(ctx, code, testCode)
		if err != nil {
			return "", "", fmt.Errorf("run validation tests: %w", err)
		}
		if !passed {
			g.log().Warn("validation tests failed", "op", "generator.validate", "outputLen", len(output))
			return "", "", fmt.Errorf("%w: %s", ErrValidation, truncate(output, 400))
		}
	}

	doc, err = g.synthesize(ctx, "doc", func(ctx context.Context) (string, error) {
		return g.synth.GenerateDoc(ctx, code)
	})
	if err != nil {
		return "", "", err
	}
	return testCode, doc, nil
}

// writeArtifacts materializes the three files for rec. The test module's
// placeholder import is rewritten to the tool's real module path so the
// suite runs against the installed catalog.
func (g *Generator) writeArtifacts(rec registry.Record, code, testCode, doc string) (string, error) {
	paths := catalog.Resolve(rec.Name, rec.Category)

	for _, rel := range []string{paths.Impl, paths.Test, paths.Doc} {
		if err := g.ws.EnsurePackagePath(rel); err != nil {
			return "", fmt.Errorf("write artifacts for %q: %w", rec.Name, err)
		}
	}

	if err := g.ws.WriteFile(paths.Impl, code); err != nil {
		return "", fmt.Errorf("write artifacts for %q: %w", rec.Name, err)
	}

	adjusted := strings.ReplaceAll(testCode,
		"from your_tool_module import",
		"from "+rec.ModulePath+" import")
	if err := g.ws.WriteFile(paths.Test, adjusted); err != nil {
		return "", fmt.Errorf("write artifacts for %q: %w", rec.Name, err)
	}

	if err := g.ws.WriteFile(paths.Doc, doc); err != nil {
		return "", fmt.Errorf("write artifacts for %q: %w", rec.Name, err)
	}

	return g.ws.Abs(paths.Impl), nil
}

func (g *Generator) persist(rec registry.Record, code, message string) error {
	if g.tools != nil {
		if err := g.tools.Upsert(rec); err != nil {
			return fmt.Errorf("persist %q: %w", rec.Name, err)
		}
	}
	if g.versions != nil {
		versionID, err := g.versions.Save(rec.Name, rec.Version, code, message)
		if err != nil {
			return fmt.Errorf("persist %q: version: %w", rec.Name, err)
		}
		g.log().Debug("version saved", "op", "generator.persist", "name", rec.Name, "versionID", versionID)
	}
	return nil
}

// synthesize runs one model call with a per-call timeout and exponential
// backoff between attempts. A call that hits the per-call deadline while
// the parent context is still alive fails fast as a timeout; other model
// errors are retried until attempts run out.
func (g *Generator) synthesize(ctx context.Context, op string, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		out, err := fn(callCtx)
		cancel()
		if err == nil {
			return out, nil
		}

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("synthesize %s: attempt %d: %w", op, attempt, ErrSynthesisTimeout)
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("synthesize %s: %w", op, ctx.Err())
		}

		lastErr = err
		g.log().Warn("synthesis attempt failed", "op", "generator.synthesize", "stage", op, "attempt", attempt, "error", err)

		if attempt < g.attempts {
			if err := retry.Sleep(ctx, g.baseDelay, g.maxDelay, attempt); err != nil {
				return "", fmt.Errorf("synthesize %s: %w", op, err)
			}
		}
	}
	return "", fmt.Errorf("synthesize %s: %w after %d attempts: %w", op, ErrSynthesis, g.attempts, lastErr)
}

func (g *Generator) dependencySummary() string {
	recs := g.reg.List()
	if len(recs) == 0 {
		return "No existing tools available."
	}
	var sb strings.Builder
	sb.WriteString("## Existing Tools\n")
	for _, rec := range recs {
		fmt.Fprintf(&sb, "- **%s**: %s\n", rec.Name, rec.Description)
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var versionRe = regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`)

// extractVersion reads the version the tool declares about itself,
// defaulting to the initial version when none is declared.
func extractVersion(code string) string {
	if m := versionRe.FindStringSubmatch(code); m != nil {
		return m[1]
	}
	return initialVersion
}

// bumpPatch increments the last numeric component of a dotted version.
func bumpPatch(version string) string {
	parts := strings.Split(version, ".")
	last := parts[len(parts)-1]
	n, err := strconv.Atoi(last)
	if err != nil {
		return version + ".1"
	}
	parts[len(parts)-1] = strconv.Itoa(n + 1)
	return strings.Join(parts, ".")
}

func firstLineOf(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return truncate(s, 200)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max]) + "..."
	}
	return s
}
