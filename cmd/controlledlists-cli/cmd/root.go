package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"controlledlists/internal/adapters/nodestore"
	"controlledlists/internal/application/panel"
	"controlledlists/internal/config"
	"controlledlists/internal/domain"
	"controlledlists/internal/logging"
	"controlledlists/internal/ports"
)

var (
	cfgFile    string
	cfg        *config.Config
	store      ports.NodeStore
	closeStore func() error
	ctrl       *panel.Controller
)

var rootCmd = &cobra.Command{
	Use:   "controlledlists-cli",
	Short: "CLI for managing controlled lists",
	Long: `controlledlists-cli manages the controlled lists of a site from the
command line: lists, terms, imports and ordering.

It talks to the site's GraphQL endpoint, or to a local SQLite store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		v := viper.New()
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		var err error
		if cfg, err = config.Load(v, cfgFile); err != nil {
			return err
		}
		if err := logging.SetLevel(cfg.LogLevel); err != nil {
			return err
		}

		store, closeStore, err = nodestore.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		ctrl = panel.New(store, panel.Options{SiteKey: cfg.Site, Language: cfg.Language, Logger: logging.Log})
		if cmd.Annotations["bootstrap"] == "skip" {
			return nil
		}
		return ctrl.Bootstrap(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctrl != nil {
			ctrl.Close()
		}
		if closeStore != nil {
			return closeStore()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if closeStore != nil {
			closeStore()
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.controlled-lists.yaml)")
	rootCmd.PersistentFlags().StringP("site", "s", "", "site key")
	rootCmd.PersistentFlags().StringP("language", "l", config.DefaultLanguage, "display language")
	rootCmd.PersistentFlags().String("store", config.DefaultStore, "node store: graphql or sqlite")
	rootCmd.PersistentFlags().String("endpoint", "", "GraphQL endpoint URL")
	rootCmd.PersistentFlags().String("db", config.DefaultDBPath, "SQLite database path")
	rootCmd.PersistentFlags().String("loglevel", "info", "log level: debug, info, warn, error")
}

// findList resolves a list by id, node name, system name or title
func findList(ref string) (*domain.List, error) {
	for _, l := range ctrl.Lists() {
		if l.ID == ref || l.Name == ref || strings.EqualFold(l.SystemName, ref) || strings.EqualFold(l.Title, ref) {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("list %q not found", ref)
}

// selectList makes the list ref the controller's selection
func selectList(ref string) (*domain.List, error) {
	l, err := findList(ref)
	if err != nil {
		return nil, err
	}
	ctrl.Select(l.ID)
	return l, nil
}

// findTerm resolves a term by id, node name or value
func findTerm(l *domain.List, ref string) (*domain.Term, error) {
	for i, t := range l.Terms {
		if t.ID == ref || t.Name == ref || strings.EqualFold(t.Value, ref) {
			return &l.Terms[i], nil
		}
	}
	return nil, fmt.Errorf("term %q not found in %s", ref, l.Title)
}
