package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolsmith-dev/toolsmith/internal/generator"
)

var (
	createSpecFile   string
	createName       string
	createCategory   string
	createNoRegister bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new tool from a specification",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := readSpec(createSpecFile)
		if err != nil {
			return err
		}

		a, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		path, err := a.gen.CreateTool(cmd.Context(), generator.ToolSpec{
			Description: spec,
			Name:        createName,
			Category:    createCategory,
		}, !createNoRegister)
		if err != nil {
			return err
		}

		fmt.Printf("Tool created successfully: %s\n", path)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createSpecFile, "spec-file", "", "read the specification from a file instead of stdin")
	createCmd.Flags().StringVar(&createName, "name", "", "override the tool name declared by the generated code")
	createCmd.Flags().StringVar(&createCategory, "category", "", "override the tool category (utility, data, api)")
	createCmd.Flags().BoolVar(&createNoRegister, "no-register", false, "write the artifacts without registering the tool")
	rootCmd.AddCommand(createCmd)
}
