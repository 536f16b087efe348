package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <tool-name> <version-id>",
	Short: "Restore a tool to a previously saved version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		path, err := a.gen.RestoreVersion(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Tool restored successfully: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
