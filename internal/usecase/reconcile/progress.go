package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type Progress struct {
	Project           *models.Project  `json:"project"`
	CompletedSessions int64            `json:"completed_sessions"`
	PlannedSessions   int              `json:"planned_sessions"`
	PaidToDate        decimal.Decimal  `json:"paid_to_date"`
	Outstanding       decimal.Decimal  `json:"outstanding"`
	Sessions          []models.Session `json:"sessions"`
}

// ProjectProgress monta a tela de detalhe do projeto. O valor pago é sempre
// derivado das sessões pagas.
type ProjectProgress struct {
	repo domain.Repository
}

func NewProjectProgress(repo domain.Repository) *ProjectProgress {
	return &ProjectProgress{repo: repo}
}

func (uc *ProjectProgress) Execute(
	ctx context.Context,
	projectID uuid.UUID,
	ownerUserID uuid.UUID,
) (*Progress, error) {

	p, err := uc.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, reconcile.Persistence(reconcile.StageProject, err)
	}
	if p.OwnerUserID != ownerUserID {
		return nil, reconcile.Fail(reconcile.StageOwnership, reconcile.ErrPermission, nil)
	}

	completed, err := uc.repo.CountCompletedSessions(ctx, projectID)
	if err != nil {
		return nil, reconcile.Fail(reconcile.StageProject, reconcile.ErrPersistence, err)
	}

	paid, err := uc.repo.SumPaidSessions(ctx, projectID)
	if err != nil {
		return nil, reconcile.Fail(reconcile.StageProject, reconcile.ErrPersistence, err)
	}

	sessions, err := uc.repo.ListProjectSessions(ctx, projectID)
	if err != nil {
		return nil, reconcile.Fail(reconcile.StageSession, reconcile.ErrPersistence, err)
	}

	outstanding := p.TotalValue.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return &Progress{
		Project:           p,
		CompletedSessions: completed,
		PlannedSessions:   p.PlannedSessionCount,
		PaidToDate:        paid,
		Outstanding:       outstanding,
		Sessions:          sessions,
	}, nil
}
