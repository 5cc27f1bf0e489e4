package reconcile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

var errProjectRequired = errors.New("project_id is required")

type SessionInput struct {
	ProjectID uuid.UUID
	// AppointmentID é nil para sessões manuais e rascunhos ainda não gravados.
	AppointmentID *uuid.UUID
	// SessionID é a sessão gravada por uma confirmação anterior do mesmo
	// rascunho. Se a linha sumiu, uma nova é criada.
	SessionID *uuid.UUID
	Outcome   domain.SessionOutcome
}

// SessionReconciler garante uma única sessão por (projeto, agendamento).
type SessionReconciler struct {
	store domain.SessionStore
}

func NewSessionReconciler(store domain.SessionStore) *SessionReconciler {
	return &SessionReconciler{store: store}
}

func (r *SessionReconciler) Reconcile(
	ctx context.Context,
	in SessionInput,
) (uuid.UUID, error) {

	if in.ProjectID == uuid.Nil {
		return uuid.Nil, reconcile.Fail(reconcile.StageSession, reconcile.ErrValidation, errProjectRequired)
	}

	if in.SessionID != nil {
		id, err := r.update(ctx, *in.SessionID, in.Outcome)
		if !errors.Is(err, reconcile.ErrNotFound) {
			return id, err
		}
	}

	if in.AppointmentID != nil {
		existing, err := r.store.FindSessionForAppointment(ctx, in.ProjectID, *in.AppointmentID)
		switch {
		case err == nil:
			return r.update(ctx, existing.ID, in.Outcome)
		case !errors.Is(err, reconcile.ErrNotFound):
			return uuid.Nil, reconcile.Fail(reconcile.StageSession, reconcile.ErrPersistence, err)
		}
	}

	count, err := r.store.CountSessions(ctx, in.ProjectID)
	if err != nil {
		return uuid.Nil, reconcile.Fail(reconcile.StageSession, reconcile.ErrPersistence, err)
	}

	s := &models.Session{
		ProjectID:      in.ProjectID,
		AppointmentID:  in.AppointmentID,
		SequenceNumber: int(count) + 1,
		Date:           in.Outcome.Date,
		Amount:         in.Outcome.Amount,
		PaymentStatus:  string(session.PaymentPending),
		TechnicalNotes: in.Outcome.TechnicalNotes,
		Feedback:       in.Outcome.Feedback,
		Rating:         in.Outcome.Rating,
	}

	if err := r.store.CreateSession(ctx, s); err != nil {
		// outra tentativa criou a sessão entre a busca e o insert
		if in.AppointmentID != nil && errors.Is(err, reconcile.ErrConflict) {
			if existing, lerr := r.store.FindSessionForAppointment(ctx, in.ProjectID, *in.AppointmentID); lerr == nil {
				return r.update(ctx, existing.ID, in.Outcome)
			}
		}
		return uuid.Nil, reconcile.Fail(reconcile.StageSession, reconcile.ErrPersistence, err)
	}

	return s.ID, nil
}

func (r *SessionReconciler) update(
	ctx context.Context,
	id uuid.UUID,
	out domain.SessionOutcome,
) (uuid.UUID, error) {

	if err := r.store.UpdateSessionOutcome(ctx, id, out); err != nil {
		return uuid.Nil, reconcile.Persistence(reconcile.StageSession, err)
	}
	return id, nil
}
