package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateSpecFile string

var updateCmd = &cobra.Command{
	Use:   "update <tool-name>",
	Short: "Update an existing tool against a new specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := readSpec(updateSpecFile)
		if err != nil {
			return err
		}

		a, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		path, err := a.gen.UpdateTool(cmd.Context(), args[0], spec)
		if err != nil {
			return err
		}

		fmt.Printf("Tool updated successfully: %s\n", path)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateSpecFile, "spec-file", "", "read the update specification from a file instead of stdin")
	rootCmd.AddCommand(updateCmd)
}
