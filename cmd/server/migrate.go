package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loan-predict/internal/db"
)

func newMigrateCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(dbPath)
			if err != nil {
				return err
			}
			writeDB, err := db.OpenSQLite(cfg.DBPath, db.ModeWrite, 0)
			if err != nil {
				return err
			}
			defer writeDB.Close()

			if err := db.RunMigrations(writeDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			version, err := db.SchemaVersion(writeDB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", cfg.DBPath, version)
			return nil
		},
	}
	dbPathFlag(cmd.Flags(), &dbPath)
	return cmd
}
