package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"controlledlists/internal/domain"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Show the languages editors can work in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current := ctrl.Language()
		for _, l := range ctrl.Languages() {
			marker := " "
			if l.Code == current {
				marker = "*"
			}
			fmt.Printf("%s %s %-6s %s\n", marker, domain.Flag(l.Code), l.Code, l.DisplayName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
