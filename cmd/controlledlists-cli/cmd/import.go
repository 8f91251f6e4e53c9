package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"controlledlists/internal/adapters/importfile"
)

var importCmd = &cobra.Command{
	Use:   "import <list> <file>",
	Short: "Import terms from a CSV or JSON file",
	Long: `Reads value, label and description from a CSV file with a header row,
or from a JSON array of objects. Rows without a label use their value.

Terms whose value already exists in the list are skipped, unless
--override is given, in which case their label and description are
rewritten in the import language.

Examples:
  controlledlists-cli import countries countries.csv
  controlledlists-cli import countries countries-fr.json --import-language fr --override
  controlledlists-cli import countries countries.csv --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := selectList(args[0]); err != nil {
			return err
		}
		entries, err := importfile.ParseFile(args[1])
		if err != nil {
			return err
		}

		if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
			shown, rest := importfile.Preview(entries)
			for _, e := range shown {
				fmt.Printf("%-24s %s\n", e.Value, e.Label)
			}
			if rest > 0 {
				fmt.Printf("... and %d more\n", rest)
			}
			return nil
		}

		lang, _ := cmd.Flags().GetString("import-language")
		if lang == "" {
			lang = ctrl.DefaultImportLanguage()
		}
		override, _ := cmd.Flags().GetBool("override")

		result, err := ctrl.ImportTerms(cmd.Context(), entries, lang, override)
		if result != nil {
			fmt.Println(result.Message)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("import-language", "", "language of labels and descriptions (default: the display language)")
	importCmd.Flags().Bool("override", false, "update terms whose value already exists")
	importCmd.Flags().Bool("dry-run", false, "only preview the parsed rows")
}
