package appointment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

// ======================================================
// INPUT
// ======================================================

// EditAppointmentInput só altera os campos não nil.
type EditAppointmentInput struct {
	OwnerUserID   uuid.UUID
	AppointmentID uuid.UUID

	ClientName *string
	ClientID   *uuid.UUID

	Date      *string
	StartTime *string
	EndTime   *string

	EstimatedValue *decimal.Decimal
	Description    *string
}

// ======================================================
// USE CASE
// ======================================================

type EditAppointment struct {
	repo     domain.Repository
	ledger   *ucReconcile.LedgerSync
	names    *ucReconcile.ClientNameResolver
	audit    *audit.Dispatcher
	timezone string
}

func NewEditAppointment(
	repo domain.Repository,
	ledger *ucReconcile.LedgerSync,
	names *ucReconcile.ClientNameResolver,
	audit *audit.Dispatcher,
	tz string,
) *EditAppointment {
	return &EditAppointment{
		repo:     repo,
		ledger:   ledger,
		names:    names,
		audit:    audit,
		timezone: tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *EditAppointment) Execute(
	ctx context.Context,
	in EditAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Agendamento
	// --------------------------------------------------
	ap, err := ownedAppointment(ctx, uc.repo, in.AppointmentID, in.OwnerUserID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	renamed := false

	// --------------------------------------------------
	// 2️⃣ Campos que entram na descrição do lançamento
	// --------------------------------------------------
	if in.ClientName != nil {
		name := strings.TrimSpace(*in.ClientName)
		if name != ap.ClientName {
			ap.ClientName = name
			fields["client_name"] = name
			renamed = true
		}
	}

	if in.ClientID != nil {
		if _, err := ownedClient(ctx, uc.repo, *in.ClientID, in.OwnerUserID); err != nil {
			return nil, err
		}
		if ap.ClientID == nil || *ap.ClientID != *in.ClientID {
			id := *in.ClientID
			ap.ClientID = &id
			fields["client_id"] = id
			renamed = true
		}
	}

	if in.Date != nil {
		date, err := timezone.ParseDate(uc.timezone, *in.Date)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		if !date.Equal(ap.Date) {
			ap.Date = date.UTC()
			fields["date"] = ap.Date
			renamed = true
		}
	}

	// --------------------------------------------------
	// 3️⃣ Demais campos
	// --------------------------------------------------
	start, end := ap.StartTime, ap.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if in.StartTime != nil || in.EndTime != nil {
		if err := validateTimes(start, end); err != nil {
			return nil, err
		}
		ap.StartTime, ap.EndTime = start, end
		fields["start_time"] = start
		fields["end_time"] = end
	}

	if in.EstimatedValue != nil {
		if in.EstimatedValue.IsNegative() {
			return nil, httperr.ErrBusiness("invalid_value")
		}
		ap.EstimatedValue = *in.EstimatedValue
		fields["estimated_value"] = *in.EstimatedValue
	}

	if in.Description != nil {
		ap.Description = *in.Description
		fields["description"] = *in.Description
	}

	if len(fields) == 0 {
		return ap, nil
	}

	// --------------------------------------------------
	// 4️⃣ Persistência
	// --------------------------------------------------
	if err := uc.repo.UpdateAppointmentFields(ctx, ap.ID, fields); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Lançamento vinculado
	// --------------------------------------------------
	// o agendamento já foi gravado; falha aqui só é registrada
	if renamed {
		desc := ucReconcile.SessionDescription(
			uc.names.Resolve(ctx, ap),
			ap.Date.In(timezone.Location(uc.timezone)),
		)
		if _, err := uc.ledger.SyncDescription(ctx, ap.ID, desc); err != nil {
			slog.Error("ledger description sync failed", "appointment_id", ap.ID, "error", err)
		}
	}

	dispatch(uc.audit, in.OwnerUserID, "appointment_updated", ap.ID, map[string]any{
		"fields": fieldNames(fields),
	})

	return ap, nil
}

func fieldNames(fields map[string]any) []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	return out
}
