package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"controlledlists/internal/application/commands"
	"controlledlists/internal/domain"
)

var termsCmd = &cobra.Command{
	Use:   "terms <list>",
	Short: "Show and manage the terms of a list",
	Long: `With only a list, prints its terms in order.

Examples:
  controlledlists-cli terms countries
  controlledlists-cli terms add countries fr --label France
  controlledlists-cli terms update countries fr --label "La France" -l fr
  controlledlists-cli terms move countries 0 3
  controlledlists-cli terms delete countries fr`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		for i, t := range list.Terms {
			fmt.Printf("%3d  %-24s %s\n", i, t.Value, t.DisplayLabel())
		}
		return nil
	},
}

var termsAddCmd = &cobra.Command{
	Use:   "add <list> <value>",
	Short: "Add a term",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := selectList(args[0]); err != nil {
			return err
		}
		form := commands.TermForm{Value: args[1]}
		form.Label, _ = cmd.Flags().GetString("label")
		form.Description, _ = cmd.Flags().GetString("description")
		if form.Label == "" {
			form.Label = form.Value
		}

		ctrl.CancelTermEdit()
		result, err := ctrl.SaveTerm(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var termsUpdateCmd = &cobra.Command{
	Use:   "update <list> <term>",
	Short: "Change a term's value, label or description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := selectList(args[0])
		if err != nil {
			return err
		}
		term, err := findTerm(list, args[1])
		if err != nil {
			return err
		}

		form, _ := ctrl.EditTerm(term.ID)
		if cmd.Flags().Changed("value") {
			form.Value, _ = cmd.Flags().GetString("value")
		}
		if cmd.Flags().Changed("label") {
			form.Label, _ = cmd.Flags().GetString("label")
		}
		if cmd.Flags().Changed("description") {
			form.Description, _ = cmd.Flags().GetString("description")
		}

		result, err := ctrl.SaveTerm(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var termsDeleteCmd = &cobra.Command{
	Use:   "delete <list> <term>",
	Short: "Delete a term",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := selectList(args[0])
		if err != nil {
			return err
		}
		term, err := findTerm(list, args[1])
		if err != nil {
			return err
		}
		if err := ctrl.DeleteTerm(cmd.Context(), term.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted term %s\n", term.DisplayLabel())
		return nil
	},
}

var termsMoveCmd = &cobra.Command{
	Use:   "move <list> <from> <to>",
	Short: "Move a term to another position",
	Long: `Moves the term at index <from> so that it is dropped before the term
currently at index <to>. Use the number of terms as <to> to move it last.
Indexes are the ones printed by "terms <list>".`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := selectList(args[0]); err != nil {
			return err
		}
		from, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[2])
		}

		result, err := ctrl.Reorder(cmd.Context(), from, &to)
		if err != nil {
			return err
		}
		if result.Order == nil {
			fmt.Println("Order unchanged")
			return nil
		}
		fmt.Println(result.Message)
		if list := ctrl.Selected(); list != nil {
			printOrder(list.Terms)
		}
		return nil
	},
}

func printOrder(terms []domain.Term) {
	for i, t := range terms {
		fmt.Printf("%3d  %s\n", i, t.DisplayLabel())
	}
}

func init() {
	rootCmd.AddCommand(termsCmd)
	termsCmd.AddCommand(termsAddCmd, termsUpdateCmd, termsDeleteCmd, termsMoveCmd)

	termsAddCmd.Flags().String("label", "", "label in the display language (default: the value)")
	termsAddCmd.Flags().String("description", "", "description in the display language")
	termsUpdateCmd.Flags().String("value", "", "new value")
	termsUpdateCmd.Flags().String("label", "", "new label")
	termsUpdateCmd.Flags().String("description", "", "new description")
}
