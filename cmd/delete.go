package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <tool-name>",
	Short: "Remove a tool's artifacts and registry entry",
	Long: "Delete removes the tool's implementation, test suite, documentation, and\n" +
		"registry entry. Version history is kept, so a deleted tool's source can\n" +
		"still be inspected with the versions command.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteForce {
			fmt.Printf("Delete tool %q and its artifacts? [y/N] ", args[0])
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if a := strings.TrimSpace(strings.ToLower(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		a, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.gen.DeleteTool(args[0]); err != nil {
			return err
		}

		fmt.Printf("Tool %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without confirmation")
	rootCmd.AddCommand(deleteCmd)
}
