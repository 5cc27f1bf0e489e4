package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-scheduler/internal/app"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

var (
	confirmActor   string
	confirmNotes   string
	confirmAmount  string
	confirmSettled bool
)

var confirmCmd = &cobra.Command{
	Use:   "confirm [appointment-id]",
	Short: "Confirm an appointment and reconcile its session and ledger entry",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		if confirmActor == "" {
			return errors.New("--as is required")
		}

		out := ucReconcile.Outcome{
			TechnicalNotes: confirmNotes,
			Settled:        confirmSettled,
		}
		if confirmAmount != "" {
			amount, err := decimal.NewFromString(confirmAmount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", confirmAmount, err)
			}
			out.Amount = &amount
		}

		res, err := a.Confirm.Execute(ctx, ucReconcile.ConfirmInput{
			AppointmentKey: args[0],
			ActingUserID:   confirmActor,
			Outcome:        out,
		})

		w := cmd.OutOrStdout()
		if res != nil {
			fmt.Fprintf(w, "State: %s (%s -> %s)\n", res.State, res.PriorStatus, res.Status)
			if res.SessionID != nil {
				fmt.Fprintf(w, "Session: %s\n", res.SessionID)
			}
			if res.TransactionID != nil {
				fmt.Fprintf(w, "Transaction: %s\n", res.TransactionID)
			} else if res.LedgerSkipped {
				fmt.Fprintln(w, "Transaction: skipped (no value)")
			}
			if res.ProjectStatus != "" {
				fmt.Fprintf(w, "Project status: %s\n", res.ProjectStatus)
			}
			if res.ProjectErr != nil {
				fmt.Fprintf(w, "⚠️  Project status not refreshed: %v\n", res.ProjectErr)
			}
		}
		return err
	}),
}

func init() {
	confirmCmd.Flags().StringVar(&confirmActor, "as", "", "acting user id (must own the appointment)")
	confirmCmd.Flags().StringVar(&confirmNotes, "notes", "", "technical notes for the session")
	confirmCmd.Flags().StringVar(&confirmAmount, "amount", "", "session amount (defaults to the estimated value)")
	confirmCmd.Flags().BoolVar(&confirmSettled, "settled", false, "record the ledger entry as already paid")
}
