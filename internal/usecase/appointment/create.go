package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	OwnerUserID uuid.UUID

	ProjectID  *uuid.UUID
	ClientID   *uuid.UUID
	ClientName string

	Date      string
	StartTime string
	EndTime   string

	EstimatedValue decimal.Decimal
	Description    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.build(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	dispatch(uc.audit, in.OwnerUserID, "appointment_created", ap.ID, nil)

	return ap, nil
}

// Draft valida o agendamento como Execute, sem gravar. O resultado vai só para
// a visão local.
func (uc *CreateAppointment) Draft(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {
	return uc.build(ctx, in)
}

// build valida a entrada e monta o agendamento com projeto e cliente do dono.
func (uc *CreateAppointment) build(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Data no fuso do estúdio (gravada em UTC)
	// --------------------------------------------------
	date, err := timezone.ParseDate(uc.timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	// --------------------------------------------------
	// 2️⃣ Horário
	// --------------------------------------------------
	if err := validateTimes(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Valor
	// --------------------------------------------------
	if in.EstimatedValue.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_value")
	}

	// --------------------------------------------------
	// 4️⃣ Projeto (herda o cliente)
	// --------------------------------------------------
	clientID := in.ClientID
	if in.ProjectID != nil {
		p, err := ownedProject(ctx, uc.repo, *in.ProjectID, in.OwnerUserID)
		if err != nil {
			return nil, err
		}
		if clientID == nil {
			clientID = p.ClientID
		}
	}

	// --------------------------------------------------
	// 5️⃣ Cliente
	// --------------------------------------------------
	if clientID != nil {
		if _, err := ownedClient(ctx, uc.repo, *clientID, in.OwnerUserID); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 6️⃣ Agendamento (status centralizado)
	// --------------------------------------------------
	return &models.Appointment{
		OwnerUserID:    in.OwnerUserID,
		ProjectID:      in.ProjectID,
		ClientID:       clientID,
		ClientName:     strings.TrimSpace(in.ClientName),
		Date:           date.UTC(),
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Status:         string(domain.InitialStatus()),
		EstimatedValue: in.EstimatedValue,
		Description:    in.Description,
	}, nil
}

// ======================================================
// HELPERS
// ======================================================

func validateTimes(start, end string) error {
	if start == "" && end == "" {
		return nil
	}

	s, err := time.Parse("15:04", start)
	if err != nil {
		return httperr.ErrBusiness("invalid_time")
	}
	if end == "" {
		return nil
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return httperr.ErrBusiness("invalid_time")
	}
	if !e.After(s) {
		return httperr.ErrBusiness("invalid_time_range")
	}
	return nil
}

// ownedAppointment trata agendamento de outro dono como inexistente.
func ownedAppointment(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
	ownerUserID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}
	if ap.OwnerUserID != ownerUserID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, nil
}

func ownedProject(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
	ownerUserID uuid.UUID,
) (*models.Project, error) {

	p, err := repo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			return nil, httperr.ErrBusiness("project_not_found")
		}
		return nil, err
	}
	if p.OwnerUserID != ownerUserID {
		return nil, httperr.ErrBusiness("project_not_found")
	}
	return p, nil
}

func ownedClient(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
	ownerUserID uuid.UUID,
) (*models.Client, error) {

	c, err := repo.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			return nil, httperr.ErrBusiness("client_not_found")
		}
		return nil, err
	}
	if c.OwnerUserID != ownerUserID {
		return nil, httperr.ErrBusiness("client_not_found")
	}
	return c, nil
}

func dispatch(
	d *audit.Dispatcher,
	ownerUserID uuid.UUID,
	action string,
	appointmentID uuid.UUID,
	meta map[string]any,
) {
	if d == nil {
		return
	}
	actor := ownerUserID
	d.Dispatch(audit.Event{
		OwnerUserID: ownerUserID,
		ActorUserID: &actor,
		Action:      action,
		Entity:      "appointment",
		EntityID:    &appointmentID,
		Metadata:    meta,
	})
}
