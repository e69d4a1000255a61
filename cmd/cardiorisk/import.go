package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/config"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate exported model documents and store them in an artifact store",
	Long: `import reads scaler.json and classifier.json from a directory, checks that
they form a consistent model, and writes them to postgres, redis or another
directory. The stored version is taken from the documents.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("from", "", "directory holding the exported documents (defaults to artifacts.dir)")
	importCmd.Flags().String("to", config.SourcePostgres, "destination store: file, postgres or redis")
	importCmd.Flags().String("out", "", "destination directory for --to file")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		from = cfg.Artifacts.Dir
	}
	to, _ := cmd.Flags().GetString("to")

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Artifacts.LoadTimeout)
	defer cancel()

	src := artifacts.NewFileSource(from, cfg.Artifacts.ScalerFile, cfg.Artifacts.ClassifierFile)
	raw, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("read documents from %s: %w", from, err)
	}

	var conns backends
	defer conns.Close()

	var bundle *artifacts.Bundle
	switch to {
	case config.SourcePostgres:
		db, err := conns.openDB(ctx, cfg)
		if err != nil {
			return err
		}
		bundle, err = artifacts.SaveToPostgres(ctx, db, raw)
		if err != nil {
			return err
		}
	case config.SourceRedis:
		bundle, err = artifacts.SaveToRedis(ctx, conns.openRedis(cfg), cfg.Redis.KeyPrefix, raw)
		if err != nil {
			return err
		}
	case config.SourceFile:
		out, _ := cmd.Flags().GetString("out")
		if out == "" || out == from {
			return fmt.Errorf("--out must name a directory other than %s", from)
		}
		bundle, err = artifacts.FromRaw(raw)
		if err != nil {
			return err
		}
		dst := artifacts.NewFileSource(out, cfg.Artifacts.ScalerFile, cfg.Artifacts.ClassifierFile)
		if err := dst.WriteDir(raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown destination %q", to)
	}

	info := bundle.Info()
	logger.WithFields(map[string]interface{}{
		"destination": to,
		"version":     info.Version,
		"fingerprint": info.Fingerprint,
		"samples":     info.Samples,
	}).Info("Model artifacts imported")
	fmt.Fprintf(cmd.OutOrStdout(), "imported version %s (%s) into %s\n", info.Version, info.Fingerprint, to)
	return nil
}
