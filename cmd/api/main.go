package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xavierca1/garage-leads/internal/config"
	"github.com/xavierca1/garage-leads/internal/logger"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "garage-leads",
		Short:         "Lead capture and coupon delivery backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newOffersCmd())
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.DefaultResolver())
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}
