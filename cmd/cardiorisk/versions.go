package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/cardio-risk/pkg/database/queries"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List model versions stored in postgres, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var conns backends
		defer conns.Close()

		db, err := conns.openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		versions, err := queries.NewArtifactRepository(db.DB).ListVersions(cmd.Context())
		if err != nil {
			return fmt.Errorf("list versions: %w", err)
		}
		if len(versions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no stored versions")
			return nil
		}
		for _, v := range versions {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}
