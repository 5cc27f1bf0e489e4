package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/optimistic"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// View é a visão local da tela que chamou a confirmação. Nil usa uma visão
// descartável (CLI).
type View interface {
	Get(key string) (models.Appointment, bool)
	Put(key string, ap models.Appointment)
	Update(key string, fn func(*models.Appointment)) bool
	Refs(key string) optimistic.Refs
	SetRefs(key string, r optimistic.Refs)
}

// Outcome traz o resultado da sessão informado na confirmação. Amount e Date
// nil usam o valor estimado e a data do agendamento.
type Outcome struct {
	Feedback       *string
	TechnicalNotes string
	Rating         *int
	Amount         *decimal.Decimal
	Date           *time.Time
	Settled        bool
}

type ConfirmInput struct {
	AppointmentKey string
	ActingUserID   string
	Outcome        Outcome
	View           View
}

// ======================================================
// USE CASE
// ======================================================

type ConfirmAppointment struct {
	appointments domain.AppointmentStore
	guard        *OwnershipGuard
	sessions     *SessionReconciler
	ledger       *LedgerSync
	names        *ClientNameResolver
	aggregator   *StatusAggregator
	audit        *audit.Dispatcher
	timezone     string
	log          *slog.Logger
}

func NewConfirmAppointment(
	appointments domain.AppointmentStore,
	guard *OwnershipGuard,
	sessions *SessionReconciler,
	ledger *LedgerSync,
	names *ClientNameResolver,
	aggregator *StatusAggregator,
	audit *audit.Dispatcher,
	tz string,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		appointments: appointments,
		guard:        guard,
		sessions:     sessions,
		ledger:       ledger,
		names:        names,
		aggregator:   aggregator,
		audit:        audit,
		timezone:     tz,
		log:          slog.Default().With("usecase", "confirm_appointment"),
	}
}

// SessionDescription é a descrição do lançamento gerado por um agendamento.
func SessionDescription(clientName string, date time.Time) string {
	return fmt.Sprintf("Sessão - %s (%s)", clientName, date.Format("02/01/2006"))
}

// ======================================================
// EXECUTE
// ======================================================

// Execute confirma o agendamento: marca como concluído na visão local, reconcilia
// sessão, lançamento e status gravado, e desfaz a visão local se alguma etapa
// falhar. Sessão e lançamento já gravados ficam; repetir a confirmação só os
// atualiza. Para rascunhos, as linhas gravadas ficam anotadas na visão.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	in ConfirmInput,
) (*reconcile.Result, error) {

	if in.View == nil {
		in.View = optimistic.NewCache()
	}

	log := uc.log.With("appointment", in.AppointmentKey, "actor", in.ActingUserID)
	res := &reconcile.Result{State: reconcile.StateRequested}

	// --------------------------------------------------
	// 1️⃣ Agendamento (visão local, senão banco)
	// --------------------------------------------------
	ap, err := uc.load(ctx, in)
	if err != nil {
		log.Warn("confirmation rejected", "error", err)
		return res, err
	}

	prior := domain.Status(ap.Status)
	priorCompletedAt := ap.CompletedAt
	res.PriorStatus = ap.Status
	res.Status = ap.Status

	// --------------------------------------------------
	// 2️⃣ Aplicação otimista
	// --------------------------------------------------
	now := timezone.NowIn(uc.timezone)
	if err := domain.Complete(&ap, now); err != nil {
		return res, reconcile.Fail(reconcile.StageAppointment, reconcile.ErrValidation, err)
	}

	in.View.Update(in.AppointmentKey, func(a *models.Appointment) {
		a.Status = ap.Status
		a.CompletedAt = ap.CompletedAt
	})
	res.State = reconcile.StateOptimisticallyApplied
	res.Status = ap.Status

	fail := func(state reconcile.State, err error) (*reconcile.Result, error) {
		in.View.Update(in.AppointmentKey, func(a *models.Appointment) {
			domain.Revert(a, prior, priorCompletedAt)
		})
		res.State = state
		res.Status = string(prior)

		log.Warn("confirmation failed",
			"state", state,
			"stage", reconcile.StageOf(err),
			"error", err,
		)
		uc.dispatch(ap, in.ActingUserID, "appointment_confirmation_"+string(state), map[string]any{
			"stage": reconcile.StageOf(err),
			"error": err.Error(),
		})
		return res, err
	}

	// --------------------------------------------------
	// 3️⃣ Reconciliação (sequencial)
	// --------------------------------------------------
	res.State = reconcile.StateReconciling

	durableID, durable := reconcile.DurableID(in.AppointmentKey)
	var apRef *uuid.UUID
	var refs optimistic.Refs
	if durable {
		apRef = &durableID
	} else {
		// rascunho: projeto e cliente vêm da tela, conferir antes de gravar
		if !uc.guard.VerifyDraft(ctx, &ap, in.ActingUserID) {
			return fail(reconcile.StateForbidden, reconcile.Fail(reconcile.StageOwnership, reconcile.ErrPermission, nil))
		}
		refs = in.View.Refs(in.AppointmentKey)
	}

	if ap.ProjectID != nil {
		sessionID, err := uc.sessions.Reconcile(ctx, SessionInput{
			ProjectID:     *ap.ProjectID,
			AppointmentID: apRef,
			SessionID:     refs.SessionID,
			Outcome:       sessionOutcome(&ap, in.Outcome),
		})
		if err != nil {
			return fail(reconcile.StateRolledBack, err)
		}
		res.SessionID = &sessionID

		if !durable {
			refs.SessionID = &sessionID
			in.View.SetRefs(in.AppointmentKey, refs)
		}
	}

	clientName := uc.names.Resolve(ctx, &ap)

	lr, err := uc.ledger.Sync(ctx, LedgerInput{
		AppointmentID: apRef,
		TransactionID: refs.TransactionID,
		OwnerUserID:   ap.OwnerUserID,
		Amount:        ap.EstimatedValue,
		DueDate:       ap.Date,
		Description:   SessionDescription(clientName, ap.Date.In(timezone.Location(uc.timezone))),
		Settled:       in.Outcome.Settled,
	})
	if err != nil {
		return fail(reconcile.StateRolledBack, err)
	}
	res.TransactionID = lr.TransactionID
	res.LedgerSkipped = lr.Skipped

	if !durable && lr.TransactionID != nil {
		refs.TransactionID = lr.TransactionID
		in.View.SetRefs(in.AppointmentKey, refs)
	}

	// rascunho local: não há linha de agendamento para atualizar
	if durable {
		if !uc.guard.Verify(ctx, in.AppointmentKey, in.ActingUserID) {
			return fail(reconcile.StateForbidden, reconcile.Fail(reconcile.StageOwnership, reconcile.ErrPermission, nil))
		}

		if err := uc.appointments.UpdateAppointmentStatus(ctx, durableID, domain.StatusCompleted, ap.CompletedAt); err != nil {
			return fail(reconcile.StateRolledBack, reconcile.Persistence(reconcile.StageAppointment, err))
		}
	}

	// --------------------------------------------------
	// 4️⃣ Commit + status do projeto
	// --------------------------------------------------
	res.State = reconcile.StateCommitted

	if ap.ProjectID != nil {
		status, err := uc.aggregator.Refresh(ctx, *ap.ProjectID)
		if err != nil {
			res.ProjectErr = err
			log.Error("project status refresh failed", "project_id", *ap.ProjectID, "error", err)
		} else {
			res.ProjectStatus = string(status)
		}
	}

	log.Info("appointment confirmed",
		"session_id", res.SessionID,
		"transaction_id", res.TransactionID,
		"ledger_skipped", res.LedgerSkipped,
		"project_status", res.ProjectStatus,
	)

	uc.dispatch(ap, in.ActingUserID, "appointment_completed", map[string]any{
		"session_id":     res.SessionID,
		"transaction_id": res.TransactionID,
		"project_status": res.ProjectStatus,
	})

	return res, nil
}

func (uc *ConfirmAppointment) load(
	ctx context.Context,
	in ConfirmInput,
) (models.Appointment, error) {

	if ap, ok := in.View.Get(in.AppointmentKey); ok {
		return ap, nil
	}

	id, ok := reconcile.DurableID(in.AppointmentKey)
	if !ok {
		return models.Appointment{}, reconcile.Fail(reconcile.StageAppointment, reconcile.ErrNotFound, nil)
	}

	ap, err := uc.appointments.GetAppointment(ctx, id)
	if err != nil {
		return models.Appointment{}, reconcile.Persistence(reconcile.StageAppointment, err)
	}

	// a visão é do usuário que confirma: linha de outro dono não entra nela
	if ap.OwnerUserID.String() == in.ActingUserID {
		in.View.Put(in.AppointmentKey, *ap)
	}
	return *ap, nil
}

func (uc *ConfirmAppointment) dispatch(
	ap models.Appointment,
	actingUserID string,
	action string,
	meta map[string]any,
) {
	if uc.audit == nil {
		return
	}

	ev := audit.Event{
		OwnerUserID: ap.OwnerUserID,
		Action:      action,
		Entity:      "appointment",
		Metadata:    meta,
	}
	if actor, err := uuid.Parse(actingUserID); err == nil {
		ev.ActorUserID = &actor
	}
	if ap.ID != uuid.Nil {
		id := ap.ID
		ev.EntityID = &id
	}

	uc.audit.Dispatch(ev)
}

func sessionOutcome(ap *models.Appointment, out Outcome) domain.SessionOutcome {
	so := domain.SessionOutcome{
		Feedback:       out.Feedback,
		TechnicalNotes: out.TechnicalNotes,
		Rating:         out.Rating,
		Amount:         ap.EstimatedValue,
		Date:           ap.Date,
	}
	if out.Amount != nil {
		so.Amount = *out.Amount
	}
	if out.Date != nil {
		so.Date = *out.Date
	}
	return so
}
