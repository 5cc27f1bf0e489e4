package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-scheduler/internal/app"
	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-scheduler/internal/db"
)

var rootCmd = &cobra.Command{
	Use:   "studioctl",
	Short: "Studio scheduler admin tool",
	Long: `studioctl runs maintenance tasks against the studio database:
schema migration, appointment confirmation and project status recompute.`,
	SilenceUsage: true,
}

// withApp abre o banco e monta o App antes de rodar fn.
func withApp(fn func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := dbpkg.Open(cfg)
		if err != nil {
			return err
		}
		if err := dbpkg.Migrate(db); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a := app.Connect(ctx, db, cfg)
		defer a.Close()

		return fn(ctx, cmd, a, args)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(recomputeCmd)
}
