package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/optimistic"
)

const testTZ = "America/Sao_Paulo"

var errInjected = errors.New("injected failure")

type fixture struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	repo  *repository.StudioGormRepository
	audit *audit.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := dbtest.New(t)
	d := audit.NewDispatcher(audit.New(gdb))
	// roda antes do Close do banco
	t.Cleanup(d.Close)

	return &fixture{
		t:     t,
		ctx:   context.Background(),
		db:    gdb,
		repo:  repository.NewStudioGormRepository(gdb),
		audit: d,
	}
}

func (f *fixture) user(name string) models.User {
	f.t.Helper()
	u := models.User{Name: name, Email: name + "@studio.test", PasswordHash: "x"}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) client(owner uuid.UUID, name string) models.Client {
	f.t.Helper()
	c := models.Client{OwnerUserID: owner, Name: name}
	require.NoError(f.t, f.repo.CreateClient(f.ctx, &c))
	return c
}

func (f *fixture) project(owner uuid.UUID, planned int, status string) models.Project {
	f.t.Helper()
	p := models.Project{
		OwnerUserID:         owner,
		Name:                "Fechamento de braço",
		PlannedSessionCount: planned,
		Status:              status,
		TotalValue:          decimal.NewFromInt(1800),
	}
	require.NoError(f.t, f.repo.CreateProject(f.ctx, &p))
	return p
}

func (f *fixture) appointment(owner uuid.UUID, projectID *uuid.UUID, value int64) models.Appointment {
	f.t.Helper()
	ap := models.Appointment{
		OwnerUserID:    owner,
		ProjectID:      projectID,
		ClientName:     "Ana",
		Date:           time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC),
		StartTime:      "14:00",
		EndTime:        "17:00",
		Status:         string(domain.StatusScheduled),
		EstimatedValue: decimal.NewFromInt(value),
	}
	require.NoError(f.t, f.repo.CreateAppointment(f.ctx, &ap))
	return ap
}

// draft grava um agendamento só na visão local e devolve a chave do rascunho.
func (f *fixture) draft(view *optimistic.Cache, owner uuid.UUID, projectID *uuid.UUID, value int64) string {
	f.t.Helper()
	ap := f.appointment(owner, projectID, value)
	require.NoError(f.t, f.repo.DeleteAppointmentCascade(f.ctx, ap.ID))
	ap.ID = uuid.Nil
	return view.PutDraft(ap)
}

func (f *fixture) sessions(projectID uuid.UUID) []models.Session {
	f.t.Helper()
	out, err := f.repo.ListProjectSessions(f.ctx, projectID)
	require.NoError(f.t, err)
	return out
}

func (f *fixture) transactions() []models.Transaction {
	f.t.Helper()
	var out []models.Transaction
	require.NoError(f.t, f.db.Find(&out).Error)
	return out
}

func (f *fixture) storedAppointment(id uuid.UUID) *models.Appointment {
	f.t.Helper()
	ap, err := f.repo.GetAppointment(f.ctx, id)
	require.NoError(f.t, err)
	return ap
}

func (f *fixture) storedProject(id uuid.UUID) *models.Project {
	f.t.Helper()
	p, err := f.repo.GetProject(f.ctx, id)
	require.NoError(f.t, err)
	return p
}

// confirmWith monta a confirmação sobre repo (que pode ser um wrapper com falhas).
func (f *fixture) confirmWith(repo domain.Repository) *ConfirmAppointment {
	return NewConfirmAppointment(
		repo,
		NewOwnershipGuard(repo),
		NewSessionReconciler(repo),
		NewLedgerSync(repo, "services"),
		NewClientNameResolver(repo, repo, nil, "Cliente"),
		NewStatusAggregator(repo),
		f.audit,
		testTZ,
	)
}

// failingRepo injeta falhas em operações específicas do repositório real.
type failingRepo struct {
	*repository.StudioGormRepository

	failCreateTransaction bool
	failFindTransaction   bool
	failUpdateStatus      bool
	failProjectStatus     bool
}

func (r *failingRepo) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if r.failCreateTransaction {
		return errInjected
	}
	return r.StudioGormRepository.CreateTransaction(ctx, tx)
}

func (r *failingRepo) FindTransactionByAppointment(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if r.failFindTransaction {
		return nil, errInjected
	}
	return r.StudioGormRepository.FindTransactionByAppointment(ctx, id)
}

func (r *failingRepo) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, s domain.Status, at *time.Time) error {
	if r.failUpdateStatus {
		return errInjected
	}
	return r.StudioGormRepository.UpdateAppointmentStatus(ctx, id, s, at)
}

func (r *failingRepo) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) error {
	if r.failProjectStatus {
		return errInjected
	}
	return r.StudioGormRepository.UpdateProjectStatus(ctx, id, status)
}

var _ domain.Repository = (*failingRepo)(nil)

func ptr[T any](v T) *T { return &v }
