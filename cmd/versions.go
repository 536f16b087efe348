package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <tool-name>",
	Short: "Show the version history of a tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		hist, err := a.versions.History(args[0])
		if err != nil {
			return err
		}
		if len(hist) == 0 {
			fmt.Printf("No versions found for tool %s.\n", args[0])
			return nil
		}

		fmt.Printf("Version history for %s (%d versions, newest first):\n", args[0], len(hist))
		for i, v := range hist {
			fmt.Printf("%d. %s\n", i+1, v.VersionID)
			fmt.Printf("   Version: %s\n", v.Version)
			fmt.Printf("   Created: %s\n", v.CreatedAt.Format("2006-01-02 15:04:05"))
			if v.Message != "" {
				fmt.Printf("   Message: %s\n", v.Message)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
