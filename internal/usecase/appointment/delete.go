package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

// DeleteAppointment remove o agendamento com suas sessões e lançamentos e
// recalcula o status do projeto vinculado.
type DeleteAppointment struct {
	repo       domain.Repository
	aggregator *ucReconcile.StatusAggregator
	audit      *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	aggregator *ucReconcile.StatusAggregator,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:       repo,
		aggregator: aggregator,
		audit:      audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	ownerUserID uuid.UUID,
	appointmentID uuid.UUID,
) error {

	ap, err := ownedAppointment(ctx, uc.repo, appointmentID, ownerUserID)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointmentCascade(ctx, ap.ID); err != nil {
		return err
	}

	meta := map[string]any{}
	if ap.ProjectID != nil {
		status, err := uc.aggregator.Refresh(ctx, *ap.ProjectID)
		if err != nil {
			return err
		}
		meta["project_id"] = *ap.ProjectID
		meta["project_status"] = status
	}

	dispatch(uc.audit, ownerUserID, "appointment_deleted", ap.ID, meta)

	return nil
}
