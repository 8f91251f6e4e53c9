package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"controlledlists/internal/domain"
)

var selectionCmd = &cobra.Command{
	Use:   "selection <value>",
	Short: "Explain a list selector value",
	Long: `Decodes a value stored by the list selector and resolves it against the
current lists. Terms that no longer exist are flagged.

Example:
  controlledlists-cli selection '{"listId":"...","terms":[{"id":"..."}]}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := domain.ParseSelection(args[0])
		if sel.ListID == "" {
			fmt.Println("No list selected")
			return nil
		}

		var list *domain.List
		for _, l := range ctrl.Lists() {
			if l.ID == sel.ListID {
				list = &l
				break
			}
		}
		if list == nil {
			fmt.Printf("List %s (no longer exists)\n", sel.ListID)
		} else {
			fmt.Printf("List %s\n", list.Title)
		}

		for _, t := range sel.Terms {
			status := ""
			if list == nil || list.FindTerm(t.ID) == nil {
				status = " (no longer in list)"
			}
			fmt.Printf("  %-24s %s%s\n", t.Value, t.Label, status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectionCmd)
}
