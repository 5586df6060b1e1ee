// Package cmd implements the lorekeeper CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorekeeper/lorekeeper/internal/config"
	"github.com/lorekeeper/lorekeeper/internal/logging"
)

const version = "0.1.0"
const logo = "🏴‍☠️"

var configPath string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "lorekeeper",
	Short: logo + " lorekeeper — pirate adventure narrator",
	Long:  logo + " lorekeeper — a tool-augmented narrator backed by a JSON world of enemies and items",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.lorekeeper/config.json)")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toolsCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath()
}

// loadConfig reads the config and installs the configured slog handler.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Install(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
