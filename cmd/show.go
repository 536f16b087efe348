package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolsmith-dev/toolsmith/internal/catalog"
)

var showSource bool

var showCmd = &cobra.Command{
	Use:   "show <tool-name>",
	Short: "Show details of a registered tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		rec, err := a.reg.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Tool: %s (v%s)\n", rec.Name, rec.Version)
		fmt.Printf("Description: %s\n", rec.Description)
		fmt.Printf("Category: %s\n", rec.Category.Dir())
		fmt.Printf("Module: %s\n", rec.ModulePath)
		fmt.Printf("Object: %s\n", rec.Object)
		fmt.Printf("Registered: %s\n", rec.RegisteredAt.Format("2006-01-02 15:04:05"))

		if showSource {
			paths := catalog.Resolve(rec.Name, rec.Category)
			source, err := a.ws.ReadFile(paths.Impl)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			fmt.Println("\nSource Code:")
			fmt.Println(source)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showSource, "source", false, "also print the tool's source code")
	rootCmd.AddCommand(showCmd)
}
