package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv() {
	for _, key := range []string{
		"TOOLSMITH_APP_NAME", "TOOLSMITH_LOG_LEVEL", "TOOLSMITH_DATA_DIR",
		"TOOLSMITH_CATALOG_ROOT", "TOOLSMITH_PROVIDER", "TOOLSMITH_MODEL",
		"TOOLSMITH_API_KEY", "TOOLSMITH_SYNTHESIS_TIMEOUT_SECONDS",
		"TOOLSMITH_SYNTHESIS_ATTEMPTS", "TOOLSMITH_SYNTHESIS_BASE_DELAY_MS",
		"TOOLSMITH_RUN_TESTS", "TOOLSMITH_PYTEST_BIN",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppName != "toolsmith" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "toolsmith")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o")
	}
	if cfg.SynthesisTimeoutSeconds != 120 {
		t.Errorf("SynthesisTimeoutSeconds = %d, want 120", cfg.SynthesisTimeoutSeconds)
	}
	if cfg.SynthesisAttempts != 3 {
		t.Errorf("SynthesisAttempts = %d, want 3", cfg.SynthesisAttempts)
	}
	if !cfg.RunTests {
		t.Error("RunTests should default to true")
	}
	if cfg.PytestBin != "pytest" {
		t.Errorf("PytestBin = %q, want %q", cfg.PytestBin, "pytest")
	}
	if !strings.HasSuffix(cfg.CatalogRoot, filepath.Join(".data", "catalog")) {
		t.Errorf("CatalogRoot = %q, want .data/catalog default", cfg.CatalogRoot)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv()
	t.Setenv("TOOLSMITH_APP_NAME", "smithy")
	t.Setenv("TOOLSMITH_LOG_LEVEL", "debug")
	t.Setenv("TOOLSMITH_PROVIDER", "anthropic")
	t.Setenv("TOOLSMITH_MODEL", "claude-sonnet-4-5")
	t.Setenv("TOOLSMITH_SYNTHESIS_ATTEMPTS", "5")
	t.Setenv("TOOLSMITH_RUN_TESTS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppName != "smithy" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.SynthesisAttempts != 5 {
		t.Errorf("SynthesisAttempts = %d", cfg.SynthesisAttempts)
	}
	if cfg.RunTests {
		t.Error("RunTests should be false")
	}
}

func TestLoadCatalogRoot(t *testing.T) {
	clearEnv()
	dir := t.TempDir()
	t.Setenv("TOOLSMITH_CATALOG_ROOT", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CatalogRoot != dir {
		t.Errorf("CatalogRoot = %q, want %q", cfg.CatalogRoot, dir)
	}
}

func TestLoadCatalogRootRelative(t *testing.T) {
	clearEnv()
	t.Setenv("TOOLSMITH_CATALOG_ROOT", "my-catalog")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(cfg.CatalogRoot) {
		t.Errorf("CatalogRoot not resolved to absolute: %q", cfg.CatalogRoot)
	}
	if !strings.HasSuffix(cfg.CatalogRoot, "my-catalog") {
		t.Errorf("CatalogRoot = %q", cfg.CatalogRoot)
	}
}

func TestLoadValidation(t *testing.T) {
	clearEnv()
	t.Setenv("TOOLSMITH_SYNTHESIS_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for zero attempts")
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"1", false, true},
		{"true", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Setenv("TOOLSMITH_TEST_BOOL", tt.value)
		if got := envBool("TOOLSMITH_TEST_BOOL", tt.fallback); got != tt.want {
			t.Errorf("envBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
		}
	}
}
