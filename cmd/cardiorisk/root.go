package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "cardiorisk",
	Short: "Heart disease risk inference service",
	Long:  "cardiorisk serves KNN heart disease risk predictions over HTTP and manages the model artifacts it loads.",
	// Without a subcommand the service runs.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (defaults to ./config.yaml, ./configs/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads and validates the configuration named by --config and
// applies its logging settings.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	return cfg, nil
}
