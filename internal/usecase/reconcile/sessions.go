package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/project"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

var errInvalidPaymentStatus = errors.New("invalid payment_status")

// SessionChange é o resultado de qualquer edição manual de sessão: a sessão
// afetada e o status do projeto recalculado.
type SessionChange struct {
	Session       *models.Session `json:"session"`
	ProjectStatus project.Status  `json:"project_status"`
}

type RegisterSessionInput struct {
	ProjectID      uuid.UUID
	OwnerUserID    uuid.UUID
	Date           time.Time
	Amount         decimal.Decimal
	PaymentStatus  session.PaymentStatus
	TechnicalNotes string
	Feedback       *string
	Rating         *int
}

type UpdateSessionInput struct {
	SessionID      uuid.UUID
	OwnerUserID    uuid.UUID
	Date           *time.Time
	Amount         *decimal.Decimal
	PaymentStatus  *session.PaymentStatus
	TechnicalNotes *string
	Feedback       *string
	Rating         *int
}

// Sessions cobre o registro manual, a edição e a exclusão de sessões na tela
// do projeto. Toda mudança que afeta a contagem recalcula o status.
type Sessions struct {
	repo       domain.Repository
	reconciler *SessionReconciler
	aggregator *StatusAggregator
	audit      *audit.Dispatcher
}

func NewSessions(
	repo domain.Repository,
	reconciler *SessionReconciler,
	aggregator *StatusAggregator,
	audit *audit.Dispatcher,
) *Sessions {
	return &Sessions{
		repo:       repo,
		reconciler: reconciler,
		aggregator: aggregator,
		audit:      audit,
	}
}

// RegisterPast registra uma sessão já realizada, sem agendamento de origem.
func (uc *Sessions) RegisterPast(
	ctx context.Context,
	in RegisterSessionInput,
) (*SessionChange, error) {

	if in.PaymentStatus != "" && !in.PaymentStatus.Valid() {
		return nil, reconcile.Fail(reconcile.StageSession, reconcile.ErrValidation, errInvalidPaymentStatus)
	}

	if _, err := uc.ownedProject(ctx, in.ProjectID, in.OwnerUserID); err != nil {
		return nil, err
	}

	id, err := uc.reconciler.Reconcile(ctx, SessionInput{
		ProjectID: in.ProjectID,
		Outcome: domain.SessionOutcome{
			Feedback:       in.Feedback,
			TechnicalNotes: in.TechnicalNotes,
			Rating:         in.Rating,
			Amount:         in.Amount,
			Date:           in.Date,
		},
	})
	if err != nil {
		return nil, err
	}

	if in.PaymentStatus != "" && in.PaymentStatus != session.PaymentPending {
		if err := uc.repo.UpdateSessionFields(ctx, id, map[string]any{
			"payment_status": string(in.PaymentStatus),
		}); err != nil {
			return nil, reconcile.Persistence(reconcile.StageSession, err)
		}
	}

	return uc.changed(ctx, in.OwnerUserID, id, "session_registered")
}

func (uc *Sessions) Update(
	ctx context.Context,
	in UpdateSessionInput,
) (*SessionChange, error) {

	s, err := uc.ownedSession(ctx, in.SessionID, in.OwnerUserID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Date != nil {
		fields["date"] = *in.Date
	}
	if in.Amount != nil {
		fields["amount"] = *in.Amount
	}
	if in.TechnicalNotes != nil {
		fields["technical_notes"] = *in.TechnicalNotes
	}
	if in.Feedback != nil {
		fields["feedback"] = *in.Feedback
	}
	if in.Rating != nil {
		fields["rating"] = *in.Rating
	}
	if in.PaymentStatus != nil {
		if !in.PaymentStatus.Valid() {
			return nil, reconcile.Fail(reconcile.StageSession, reconcile.ErrValidation, errInvalidPaymentStatus)
		}
		fields["payment_status"] = string(*in.PaymentStatus)
	}

	if len(fields) > 0 {
		if err := uc.repo.UpdateSessionFields(ctx, s.ID, fields); err != nil {
			return nil, reconcile.Persistence(reconcile.StageSession, err)
		}
	}

	return uc.changed(ctx, in.OwnerUserID, s.ID, "session_updated")
}

func (uc *Sessions) Delete(
	ctx context.Context,
	sessionID uuid.UUID,
	ownerUserID uuid.UUID,
) (project.Status, error) {

	s, err := uc.ownedSession(ctx, sessionID, ownerUserID)
	if err != nil {
		return "", err
	}

	if err := uc.repo.DeleteSession(ctx, s.ID); err != nil {
		return "", reconcile.Persistence(reconcile.StageSession, err)
	}

	status, err := uc.aggregator.Refresh(ctx, s.ProjectID)
	if err != nil {
		return "", err
	}

	uc.dispatch(ownerUserID, "session_deleted", s.ID, map[string]any{
		"project_id":     s.ProjectID,
		"project_status": status,
	})

	return status, nil
}

func (uc *Sessions) changed(
	ctx context.Context,
	ownerUserID uuid.UUID,
	sessionID uuid.UUID,
	action string,
) (*SessionChange, error) {

	s, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, reconcile.Persistence(reconcile.StageSession, err)
	}

	status, err := uc.aggregator.Refresh(ctx, s.ProjectID)
	if err != nil {
		return nil, err
	}

	uc.dispatch(ownerUserID, action, s.ID, map[string]any{
		"project_id":     s.ProjectID,
		"project_status": status,
	})

	return &SessionChange{Session: s, ProjectStatus: status}, nil
}

func (uc *Sessions) ownedProject(
	ctx context.Context,
	projectID uuid.UUID,
	ownerUserID uuid.UUID,
) (*models.Project, error) {

	p, err := uc.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, reconcile.Persistence(reconcile.StageProject, err)
	}
	if p.OwnerUserID != ownerUserID {
		return nil, reconcile.Fail(reconcile.StageOwnership, reconcile.ErrPermission, nil)
	}
	return p, nil
}

func (uc *Sessions) ownedSession(
	ctx context.Context,
	sessionID uuid.UUID,
	ownerUserID uuid.UUID,
) (*models.Session, error) {

	s, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, reconcile.Persistence(reconcile.StageSession, err)
	}
	if _, err := uc.ownedProject(ctx, s.ProjectID, ownerUserID); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *Sessions) dispatch(
	ownerUserID uuid.UUID,
	action string,
	sessionID uuid.UUID,
	meta map[string]any,
) {
	if uc.audit == nil {
		return
	}
	actor := ownerUserID
	uc.audit.Dispatch(audit.Event{
		OwnerUserID: ownerUserID,
		ActorUserID: &actor,
		Action:      action,
		Entity:      "session",
		EntityID:    &sessionID,
		Metadata:    meta,
	})
}
