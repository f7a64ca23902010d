package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"StabTrade/pkg/config"
)

var configPath string

// rootCmd is the base command for the StabTrade CLI.
var rootCmd = &cobra.Command{
	Use:   "stabtrade",
	Short: "Per-day stability scoring and annualized yield evaluation",
	Long: `StabTrade groups intraday bars into calendar days, scores each day's
early-session stability from windowed drawdown and reverse metrics, and
decides whether a trade is taken for the rest of the day.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
}

// loadConfig reads the config file and applies environment overrides. A
// missing default config file falls back to built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if _, err := os.Stat(path); err != nil && !rootCmd.PersistentFlags().Changed("config") {
		path = ""
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
