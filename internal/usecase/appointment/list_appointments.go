package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/dto"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

// Loader recebe as linhas lidas para a visão local da tela. Pode ser nil.
type Loader interface {
	Load(aps []models.Appointment)
}

type ListAppointments struct {
	repo     domain.Repository
	timezone string
}

func NewListAppointments(
	repo domain.Repository,
	tz string,
) *ListAppointments {
	return &ListAppointments{
		repo:     repo,
		timezone: tz,
	}
}

// ByDate lista o dia de date no fuso do estúdio.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	ownerUserID uuid.UUID,
	date time.Time,
	view Loader,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location(uc.timezone)
	d := date.In(loc)

	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	return uc.period(ctx, ownerUserID, start, end, view)
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	ownerUserID uuid.UUID,
	year int,
	month int,
	view Loader,
) ([]dto.AppointmentListDTO, error) {

	start, end := timezone.MonthBounds(uc.timezone, year, time.Month(month))
	return uc.period(ctx, ownerUserID, start, end, view)
}

func (uc *ListAppointments) period(
	ctx context.Context,
	ownerUserID uuid.UUID,
	start time.Time,
	end time.Time,
	view Loader,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		ownerUserID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	if view != nil {
		view.Load(appointments)
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap.ID.String(), ap, uc.timezone))
	}

	return out, nil
}
