package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"StabTrade/internal/di"
)

var (
	runInput  string
	runOutput string
	runSymbol string
	runFrom   string
	runTo     string
)

// runCmd evaluates every day of the configured input once.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate every day of the input and write annual yields",
	Long: `Load bars from the configured source, evaluate each calendar day and
write the outcomes to every configured sink.

Examples:
  stabtrade run --input bars.csv --out annual_yield.xlsx
  stabtrade run --config config/config.yaml --from 2024-01-01 --to 2024-03-31`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runInput, "input", "", "input CSV path (overrides input.path)")
	runCmd.Flags().StringVar(&runOutput, "out", "", "XLSX output path (overrides output.xlsx_path)")
	runCmd.Flags().StringVar(&runSymbol, "symbol", "", "symbol label (overrides strategy.symbol)")
	runCmd.Flags().StringVar(&runFrom, "from", "", "first day, YYYY-MM-DD")
	runCmd.Flags().StringVar(&runTo, "to", "", "last day, YYYY-MM-DD")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runInput != "" {
		cfg.Input.Path = runInput
	}
	if runOutput != "" {
		cfg.Output.XLSXPath = runOutput
	}
	if runSymbol != "" {
		cfg.Strategy.Symbol = runSymbol
	}
	if runFrom != "" {
		cfg.Input.From = runFrom
	}
	if runTo != "" {
		cfg.Input.To = runTo
	}
	if cfg.Input.Type == "csv" && cfg.Input.Path == "" {
		return fmt.Errorf("input path is required: pass --input or set input.path")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	batch, err := di.InitializeBatch(cfg)
	if err != nil {
		return fmt.Errorf("batch initialization failed: %w", err)
	}

	sum, err := batch.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "bars=%d days=%d evaluated=%d failed=%d\n",
		sum.Bars, sum.Days, sum.Evaluated, len(sum.Failed))
	return nil
}
