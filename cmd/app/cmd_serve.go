package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"StabTrade/internal/di"
)

// serveCmd runs the HTTP API and, when enabled, the Kafka day consumer.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and consume day messages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		app, err := di.InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("app initialization failed: %w", err)
		}
		return app.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
