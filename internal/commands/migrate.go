package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-scheduler/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := dbpkg.Open(cfg)
		if err != nil {
			return err
		}
		if err := dbpkg.Migrate(db); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Schema migrated (%s)\n", cfg.DBDriver)
		return nil
	},
}
