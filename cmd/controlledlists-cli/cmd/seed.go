package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"controlledlists/internal/adapters/sqlite"
	"controlledlists/internal/domain"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a site and its languages in the local store",
	Long: `Prepares the SQLite store so the panel can run without a CMS. Each --lang
is code or code:Display Name; the first one is the default.

Examples:
  controlledlists-cli seed --site acme --lang en:English --lang fr:Français`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"bootstrap": "skip"},
	RunE: func(cmd *cobra.Command, args []string) error {
		local, ok := store.(*sqlite.Store)
		if !ok {
			return errors.New("seed only works with the sqlite store")
		}
		if cfg.Site == "" {
			return errors.New("seed needs --site")
		}

		specs, _ := cmd.Flags().GetStringSlice("lang")
		langs := make([]domain.Language, 0, len(specs))
		for _, spec := range specs {
			code, name, _ := strings.Cut(spec, ":")
			langs = append(langs, domain.Language{Code: strings.TrimSpace(code), DisplayName: strings.TrimSpace(name), ActiveInEdit: true})
		}

		if err := local.SeedSite(cmd.Context(), cfg.Site, langs); err != nil {
			return err
		}
		if err := ctrl.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Seeded site %s with %d language(s)\n", cfg.Site, len(ctrl.Languages()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringSlice("lang", []string{"en:English"}, "site language, code or code:name")
}
