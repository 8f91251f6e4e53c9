package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"controlledlists/internal/application/commands"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show and manage the site's lists",
	Long: `Without a subcommand, prints every list of the site sorted by title.

Examples:
  controlledlists-cli lists
  controlledlists-cli lists create "Countries" --title "Countries"
  controlledlists-cli lists update countries --title "Pays" -l fr
  controlledlists-cli lists delete countries`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, l := range ctrl.Lists() {
			fmt.Printf("%-24s %s (%d terms)\n", l.Name, l.Title, len(l.Terms))
		}
		return nil
	},
}

var listsCreateCmd = &cobra.Command{
	Use:   "create <system-name>",
	Short: "Create a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := commands.ListForm{SystemName: args[0]}
		form.Title, _ = cmd.Flags().GetString("title")
		form.Description, _ = cmd.Flags().GetString("description")
		if form.Title == "" {
			form.Title = form.SystemName
		}

		ctrl.BeginCreateList()
		result, err := ctrl.SaveList(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var listsUpdateCmd = &cobra.Command{
	Use:   "update <list>",
	Short: "Change a list's system name, title or description",
	Long: `Only the flags given are changed. Title and description are written in
the language selected with --language. Changing the system name renames
the list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := selectList(args[0])
		if err != nil {
			return err
		}

		form := commands.FormFromList(list)
		if cmd.Flags().Changed("system-name") {
			form.SystemName, _ = cmd.Flags().GetString("system-name")
		}
		if cmd.Flags().Changed("title") {
			form.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("description") {
			form.Description, _ = cmd.Flags().GetString("description")
		}

		result, err := ctrl.SaveList(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var listsDeleteCmd = &cobra.Command{
	Use:   "delete <list>",
	Short: "Delete a list and all of its terms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		if err := ctrl.DeleteList(cmd.Context(), list.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted list %s\n", list.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listsCmd)
	listsCmd.AddCommand(listsCreateCmd, listsUpdateCmd, listsDeleteCmd)

	listsCreateCmd.Flags().String("title", "", "title in the display language (default: the system name)")
	listsCreateCmd.Flags().String("description", "", "description in the display language")
	listsUpdateCmd.Flags().String("system-name", "", "new system name")
	listsUpdateCmd.Flags().String("title", "", "new title")
	listsUpdateCmd.Flags().String("description", "", "new description")
}
