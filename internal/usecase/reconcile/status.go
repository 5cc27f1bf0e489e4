package reconcile

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/project"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// StatusAggregator recalcula e grava o status de um projeto. Deve rodar
// depois de toda criação, mudança de pagamento ou exclusão de sessão.
type StatusAggregator struct {
	store domain.ProjectStore
	log   *slog.Logger
}

func NewStatusAggregator(store domain.ProjectStore) *StatusAggregator {
	return &StatusAggregator{
		store: store,
		log:   slog.Default().With("component", "status_aggregator"),
	}
}

// Recompute aplica project.Derive com as contagens informadas. Sem sessões
// planejadas, ou com o projeto pausado/cancelado, o status gravado é mantido.
func (a *StatusAggregator) Recompute(
	ctx context.Context,
	projectID uuid.UUID,
	completed int64,
	planned int64,
) (project.Status, error) {

	p, err := a.store.GetProject(ctx, projectID)
	if err != nil {
		return "", reconcile.Persistence(reconcile.StageProject, err)
	}
	return a.apply(ctx, p, completed, planned)
}

// Refresh lê as contagens atuais do banco e recalcula.
func (a *StatusAggregator) Refresh(
	ctx context.Context,
	projectID uuid.UUID,
) (project.Status, error) {

	p, err := a.store.GetProject(ctx, projectID)
	if err != nil {
		return "", reconcile.Persistence(reconcile.StageProject, err)
	}

	completed, err := a.store.CountCompletedSessions(ctx, projectID)
	if err != nil {
		return "", reconcile.Fail(reconcile.StageProject, reconcile.ErrPersistence, err)
	}

	return a.apply(ctx, p, completed, int64(p.PlannedSessionCount))
}

func (a *StatusAggregator) apply(
	ctx context.Context,
	p *models.Project,
	completed int64,
	planned int64,
) (project.Status, error) {

	current := project.Status(p.Status)

	derived, ok := project.Derive(completed, planned)
	if !ok || current.ManualHold() || derived == current {
		return current, nil
	}

	if err := a.store.UpdateProjectStatus(ctx, p.ID, string(derived)); err != nil {
		return "", reconcile.Persistence(reconcile.StageProject, err)
	}

	a.log.Info("project status recomputed",
		"project_id", p.ID,
		"from", current,
		"to", derived,
		"completed", completed,
		"planned", planned,
	)

	return derived, nil
}
