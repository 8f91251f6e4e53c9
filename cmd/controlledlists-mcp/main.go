package main

import (
	"context"
	"flag"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	mcpadapter "controlledlists/internal/adapters/mcp"
	"controlledlists/internal/adapters/nodestore"
	"controlledlists/internal/application/panel"
	"controlledlists/internal/config"
	"controlledlists/internal/logging"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default ~/.controlled-lists.yaml)")
	site := flag.String("site", "", "site key (overrides config)")
	flag.Parse()

	// stdout carries the protocol; logs stay on stderr
	log := logging.Log

	v := viper.New()
	if *site != "" {
		v.Set("site", *site)
	}
	cfg, err := config.Load(v, *cfgFile)
	if err != nil {
		log.Fatalf("controlledlists-mcp: %v", err)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("controlledlists-mcp: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := nodestore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("controlledlists-mcp: %v", err)
	}
	defer closeStore()

	ctrl := panel.New(store, panel.Options{SiteKey: cfg.Site, Language: cfg.Language, Logger: log})
	defer ctrl.Close()
	if err := ctrl.Bootstrap(ctx); err != nil {
		log.Fatalf("controlledlists-mcp: %v", err)
	}
	log.WithFields(logrus.Fields{"site": ctrl.Site(), "language": ctrl.Language()}).Info("panel ready")

	mcpServer := server.NewMCPServer(
		"controlledlists-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.NewTools(ctrl).Register(mcpServer)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Errorf("controlledlists-mcp: %v", err)
	}
}
