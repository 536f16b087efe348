// Package cmd implements the toolsmith command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagProvider  string
	flagModel     string
	flagAPIKey    string
	flagOutputDir string
)

var rootCmd = &cobra.Command{
	Use:   "toolsmith",
	Short: "Generate, validate, and manage LLM-synthesized agent tools",
	Long: "Toolsmith turns natural-language specifications into Python tools: it synthesizes\n" +
		"the implementation, tests, and documentation, validates them in isolation, and\n" +
		"manages the resulting catalog with a versioned registry.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "AI provider (overrides TOOLSMITH_PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name (overrides TOOLSMITH_MODEL)")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "provider API key (overrides TOOLSMITH_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "catalog root directory (overrides TOOLSMITH_CATALOG_ROOT)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
