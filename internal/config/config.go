package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	AppName  string
	LogLevel string
	DataDir  string

	// Catalog root: where tool, test, and doc files are written.
	CatalogRoot string

	// AI provider
	Provider string
	Model    string
	APIKey   string

	// Synthesis pipeline
	SynthesisTimeoutSeconds int
	SynthesisAttempts       int
	SynthesisBaseDelayMs    int

	// Validation
	RunTests  bool
	PytestBin string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}

	dataDir := resolvePath(cwd, envStr("TOOLSMITH_DATA_DIR", ".data"))

	// Catalog root: TOOLSMITH_CATALOG_ROOT > default next to the data dir.
	catalogRootRaw := strings.TrimSpace(os.Getenv("TOOLSMITH_CATALOG_ROOT"))
	var catalogRoot string
	if catalogRootRaw != "" {
		catalogRoot = resolvePath(cwd, catalogRootRaw)
	} else {
		catalogRoot = filepath.Join(dataDir, "catalog")
	}

	cfg := &Config{
		AppName:  envStr("TOOLSMITH_APP_NAME", "toolsmith"),
		LogLevel: envStr("TOOLSMITH_LOG_LEVEL", "info"),
		DataDir:  dataDir,

		CatalogRoot: catalogRoot,

		Provider: envStr("TOOLSMITH_PROVIDER", "openai"),
		Model:    envStr("TOOLSMITH_MODEL", "gpt-4o"),
		APIKey:   envStr("TOOLSMITH_API_KEY", ""),

		SynthesisTimeoutSeconds: envInt("TOOLSMITH_SYNTHESIS_TIMEOUT_SECONDS", 120),
		SynthesisAttempts:       envInt("TOOLSMITH_SYNTHESIS_ATTEMPTS", 3),
		SynthesisBaseDelayMs:    envInt("TOOLSMITH_SYNTHESIS_BASE_DELAY_MS", 1000),

		RunTests:  envBool("TOOLSMITH_RUN_TESTS", true),
		PytestBin: envStr("TOOLSMITH_PYTEST_BIN", "pytest"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CatalogRoot == "" {
		return fmt.Errorf("TOOLSMITH_CATALOG_ROOT cannot be empty")
	}
	if c.SynthesisTimeoutSeconds < 1 {
		return fmt.Errorf("TOOLSMITH_SYNTHESIS_TIMEOUT_SECONDS must be >= 1")
	}
	if c.SynthesisAttempts < 1 {
		return fmt.Errorf("TOOLSMITH_SYNTHESIS_ATTEMPTS must be >= 1")
	}
	if c.RunTests && c.PytestBin == "" {
		return fmt.Errorf("TOOLSMITH_PYTEST_BIN cannot be empty when TOOLSMITH_RUN_TESTS=true")
	}
	return nil
}

// LoadDotEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment only for keys that are not already set.
func LoadDotEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open dotenv: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}
		if strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setenv %s: %w", key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan dotenv: %w", err)
	}
	return nil
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func resolvePath(cwd, value string) string {
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(cwd, value)
}
