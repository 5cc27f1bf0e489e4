package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	ownerUserID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := ownedAppointment(ctx, uc.repo, appointmentID, ownerUserID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentFields(ctx, ap.ID, map[string]any{
		"status":       ap.Status,
		"cancelled_at": ap.CancelledAt,
	}); err != nil {
		return nil, err
	}

	dispatch(uc.audit, ownerUserID, "appointment_cancelled", ap.ID, nil)

	return ap, nil
}
