package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"controlledlists/internal/adapters/nodestore"
	"controlledlists/internal/adapters/tui"
	"controlledlists/internal/application/panel"
	"controlledlists/internal/config"
	"controlledlists/internal/logging"
)

var (
	cfgFile    string
	value      string
	printValue bool
)

var rootCmd = &cobra.Command{
	Use:   "controlledlists",
	Short: "Terminal admin panel for controlled lists",
	Long: `controlledlists manages the controlled lists of a site: lists, their
terms in every site language, imports and ordering. It also hosts the list
selector, whose value can be printed on exit with --print.`,
	SilenceUsage: true,
	RunE:         run,
}

func run(cmd *cobra.Command, args []string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	// the alt screen owns the terminal
	if cfg.LogFile != "" {
		f, err := logging.ToFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	} else {
		logging.Discard()
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	store, closeStore, err := nodestore.Open(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctrl := panel.New(store, panel.Options{SiteKey: cfg.Site, Language: cfg.Language, Logger: logging.Log})
	app := tui.NewApp(ctrl, value)
	defer app.Close()

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	if printValue {
		fmt.Println(app.Selection())
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default ~/.controlled-lists.yaml)")
	rootCmd.Flags().String("site", "", "site key")
	rootCmd.Flags().String("language", config.DefaultLanguage, "preferred display language")
	rootCmd.Flags().String("store", config.DefaultStore, "node store: graphql or sqlite")
	rootCmd.Flags().String("endpoint", "", "GraphQL endpoint URL")
	rootCmd.Flags().String("db", config.DefaultDBPath, "SQLite database path")
	rootCmd.Flags().String("logfile", "", "write logs to this file")
	rootCmd.Flags().StringVar(&value, "value", "", "initial list selector value")
	rootCmd.Flags().BoolVar(&printValue, "print", false, "print the list selector value on exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
