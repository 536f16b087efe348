package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolsmith-dev/toolsmith/internal/catalog"
	"github.com/toolsmith-dev/toolsmith/internal/registry"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		var recs []registry.Record
		if listCategory != "" {
			recs = a.reg.ListCategory(catalog.ParseCategory(listCategory))
		} else {
			recs = a.reg.List()
		}

		if len(recs) == 0 {
			fmt.Println("No tools found.")
			return nil
		}

		fmt.Printf("Found %d tools:\n", len(recs))
		for i, rec := range recs {
			fmt.Printf("%d. %s (v%s)\n", i+1, rec.Name, rec.Version)
			fmt.Printf("   Description: %s\n", rec.Description)
			fmt.Printf("   Category: %s\n", rec.Category.Dir())
			fmt.Printf("   Module: %s\n", rec.ModulePath)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "only list tools in this category (utility, data, api)")
	rootCmd.AddCommand(listCmd)
}
