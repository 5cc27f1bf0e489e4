package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-scheduler/internal/app"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute [project-id...]",
	Short: "Recompute project status from recorded sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		w := cmd.OutOrStdout()

		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid project id %q: %w", arg, err)
			}

			status, err := a.Aggregator.Refresh(ctx, id)
			if err != nil {
				return fmt.Errorf("project %s: %w", id, err)
			}

			fmt.Fprintf(w, "%s\t%s\n", id, status)
		}
		return nil
	}),
}
