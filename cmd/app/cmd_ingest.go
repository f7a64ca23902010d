package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"StabTrade/internal/di"
)

var (
	ingestInput  string
	ingestSymbol string
)

// ingestCmd loads a CSV file of bars into ClickHouse.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load bars from a CSV file into ClickHouse",
	Long: `Read every bar from a CSV file and insert it into the bars table so
later runs can use input.type clickhouse.

Example:
  stabtrade ingest --input bars.csv --symbol SPY`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if ingestInput != "" {
			cfg.Input.Path = ingestInput
		}
		if ingestSymbol != "" {
			cfg.Strategy.Symbol = ingestSymbol
		}
		if cfg.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for ingest")
		}

		ingest, err := di.InitializeIngest(cfg)
		if err != nil {
			return fmt.Errorf("ingest initialization failed: %w", err)
		}
		n, err := ingest.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ingested %d bars\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestInput, "input", "", "input CSV path")
	ingestCmd.Flags().StringVar(&ingestSymbol, "symbol", "", "symbol to store the bars under")
}
