package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/toolsmith-dev/toolsmith/internal/config"
	"github.com/toolsmith-dev/toolsmith/internal/generator"
	"github.com/toolsmith-dev/toolsmith/internal/registry"
	"github.com/toolsmith-dev/toolsmith/internal/store"
	"github.com/toolsmith-dev/toolsmith/internal/synth"
	"github.com/toolsmith-dev/toolsmith/internal/validate"
	"github.com/toolsmith-dev/toolsmith/internal/workspace"
)

// app bundles the wired collaborators every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *store.DB
	reg      *registry.Registry
	ws       *workspace.Workspace
	gen      *generator.Generator
	tools    *store.ToolRepo
	versions *store.VersionRepo
}

// newApp loads config, opens the store, rehydrates the registry, and wires
// the generator. The returned cleanup closes the database.
func newApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	applyFlagOverrides(cfg)

	logger := newLogger(cfg.LogLevel)

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("store: %w", err)
	}
	cleanup := func() { db.Close() }

	tools := store.NewToolRepo(db)
	versions := store.NewVersionRepo(db)

	reg := registry.New(logger)
	recs, err := tools.LoadAll()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load tool index: %w", err)
	}
	reg.LoadIndex(recs)

	ws := workspace.New(cfg.CatalogRoot, logger)
	if err := ws.Initialize(); err != nil {
		cleanup()
		return nil, nil, err
	}

	synthesizer, err := newSynthesizer(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var runner validate.Runner
	if cfg.RunTests {
		runner = &validate.PytestRunner{Pytest: cfg.PytestBin, Logger: logger}
	}

	gen := generator.New(generator.Config{
		Synth:     synthesizer,
		Registry:  reg,
		Workspace: ws,
		Runner:    runner,
		Tools:     tools,
		Versions:  versions,
		Timeout:   time.Duration(cfg.SynthesisTimeoutSeconds) * time.Second,
		Attempts:  cfg.SynthesisAttempts,
		BaseDelay: time.Duration(cfg.SynthesisBaseDelayMs) * time.Millisecond,
		Logger:    logger,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		reg:      reg,
		ws:       ws,
		gen:      gen,
		tools:    tools,
		versions: versions,
	}, cleanup, nil
}

func applyFlagOverrides(cfg *config.Config) {
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagOutputDir != "" {
		cfg.CatalogRoot = flagOutputDir
	}
}

func newSynthesizer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (synth.Synthesizer, error) {
	if cfg.APIKey == "" {
		logger.Warn("no API key configured, synthesis will fail", "provider", cfg.Provider)
		return synth.NewStubSynthesizer(logger), nil
	}
	return synth.NewFantasySynthesizer(ctx, synth.FantasySynthesizerConfig{
		ProviderName: cfg.Provider,
		APIKey:       cfg.APIKey,
		Model:        cfg.Model,
		Logger:       logger,
	})
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// readSpec returns the specification text from a file, or from stdin when
// no file is given.
func readSpec(specFile string) (string, error) {
	var data []byte
	var err error
	if specFile != "" {
		data, err = os.ReadFile(specFile)
	} else {
		fmt.Fprintln(os.Stderr, "Enter specification (press Ctrl+D on a new line when done):")
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read specification: %w", err)
	}
	spec := strings.TrimSpace(string(data))
	if spec == "" {
		return "", fmt.Errorf("empty specification")
	}
	return spec, nil
}
