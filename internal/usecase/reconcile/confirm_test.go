package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/project"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/optimistic"
)

func TestConfirmAppointment_SingleSessionProject(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p1 := f.project(owner.ID, 1, string(project.StatusPlanning))
	a1 := f.appointment(owner.ID, &p1.ID, 450)

	view := optimistic.NewCache()
	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: a1.ID.String(),
		ActingUserID:   owner.ID.String(),
		Outcome:        Outcome{Feedback: ptr("great"), Rating: ptr(5)},
		View:           view,
	})
	require.NoError(t, err)

	assert.Equal(t, reconcile.StateCommitted, res.State)
	assert.Equal(t, string(domain.StatusScheduled), res.PriorStatus)
	assert.Equal(t, string(project.StatusCompleted), res.ProjectStatus)
	require.NotNil(t, res.SessionID)
	require.NotNil(t, res.TransactionID)

	sessions := f.sessions(p1.ID)
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, 1, s.SequenceNumber)
	assert.Equal(t, a1.ID, *s.AppointmentID)
	assert.Equal(t, string(session.PaymentPending), s.PaymentStatus)
	assert.Equal(t, "great", *s.Feedback)
	assert.Equal(t, 5, *s.Rating)
	assert.True(t, s.Amount.Equal(decimal.NewFromInt(450)), "amount %s", s.Amount)

	txs := f.transactions()
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, string(ledger.TypeRevenue), tx.Type)
	assert.Equal(t, "services", tx.Category)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("450.00")))
	assert.Equal(t, a1.ID, *tx.AppointmentID)
	assert.Equal(t, owner.ID, tx.OwnerUserID)
	assert.Nil(t, tx.SettlementDate)
	assert.Equal(t, "Sessão - Ana (10/05/2024)", tx.Description)

	stored := f.storedAppointment(a1.ID)
	assert.Equal(t, string(domain.StatusCompleted), stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	assert.Equal(t, string(project.StatusCompleted), f.storedProject(p1.ID).Status)

	cached, ok := view.Get(a1.ID.String())
	require.True(t, ok)
	assert.Equal(t, string(domain.StatusCompleted), cached.Status)
}

func TestConfirmAppointment_Idempotent(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 4, string(project.StatusPlanning))
	ap := f.appointment(owner.ID, &p.ID, 300)

	uc := f.confirmWith(f.repo)
	view := optimistic.NewCache()

	in := ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
		Outcome:        Outcome{TechnicalNotes: "agulha 7RL"},
		View:           view,
	}

	first, err := uc.Execute(f.ctx, in)
	require.NoError(t, err)
	second, err := uc.Execute(f.ctx, in)
	require.NoError(t, err)

	assert.Equal(t, reconcile.StateCommitted, second.State)
	assert.Equal(t, *first.SessionID, *second.SessionID)
	assert.Equal(t, *first.TransactionID, *second.TransactionID)

	assert.Len(t, f.sessions(p.ID), 1)
	assert.Len(t, f.transactions(), 1)
	assert.Equal(t, string(project.StatusInProgress), f.storedProject(p.ID).Status)
}

func TestConfirmAppointment_ForbiddenKeepsPriorWrites(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	intruder := f.user("intruder")
	p := f.project(owner.ID, 4, string(project.StatusPlanning))
	ap := f.appointment(owner.ID, &p.ID, 450)

	view := optimistic.NewCache()
	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   intruder.ID.String(),
		View:           view,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPermission)
	assert.Equal(t, reconcile.StageOwnership, reconcile.StageOf(err))
	assert.Equal(t, reconcile.StateForbidden, res.State)
	assert.Equal(t, string(domain.StatusScheduled), res.Status)

	// status gravado intacto
	assert.Equal(t, string(domain.StatusScheduled), f.storedAppointment(ap.ID).Status)

	// sessão e lançamento gravados antes da checagem ficam
	assert.Len(t, f.sessions(p.ID), 1)
	assert.Len(t, f.transactions(), 1)
	assert.NotNil(t, res.SessionID)
	assert.NotNil(t, res.TransactionID)

	// a linha de outro dono não entra na visão de quem confirmou
	_, ok := view.Get(ap.ID.String())
	assert.False(t, ok)
	assert.Empty(t, view.Items())
}

func TestConfirmAppointment_LedgerFailureRollsBackView(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 2, string(project.StatusPlanning))
	ap := f.appointment(owner.ID, &p.ID, 450)

	repo := &failingRepo{StudioGormRepository: f.repo, failCreateTransaction: true}
	view := optimistic.NewCache()

	res, err := f.confirmWith(repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
		View:           view,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPersistence)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, reconcile.StageLedger, reconcile.StageOf(err))
	assert.Equal(t, reconcile.StateRolledBack, res.State)

	cached, ok := view.Get(ap.ID.String())
	require.True(t, ok)
	assert.Equal(t, string(domain.StatusScheduled), cached.Status)

	assert.Equal(t, string(domain.StatusScheduled), f.storedAppointment(ap.ID).Status)
	assert.Len(t, f.sessions(p.ID), 1)
	assert.Empty(t, f.transactions())
	assert.Equal(t, string(project.StatusPlanning), f.storedProject(p.ID).Status)
}

func TestConfirmAppointment_LedgerReadErrorIsNotTreatedAsMissing(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	ap := f.appointment(owner.ID, nil, 200)

	repo := &failingRepo{StudioGormRepository: f.repo, failFindTransaction: true}

	res, err := f.confirmWith(repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPersistence)
	assert.Equal(t, reconcile.StateRolledBack, res.State)
	assert.Empty(t, f.transactions())
}

func TestConfirmAppointment_StatusPersistFailure(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	ap := f.appointment(owner.ID, nil, 200)

	repo := &failingRepo{StudioGormRepository: f.repo, failUpdateStatus: true}
	view := optimistic.NewCache()

	res, err := f.confirmWith(repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
		View:           view,
	})

	require.Error(t, err)
	assert.Equal(t, reconcile.StageAppointment, reconcile.StageOf(err))
	assert.Equal(t, reconcile.StateRolledBack, res.State)
	assert.Len(t, f.transactions(), 1)

	cached, _ := view.Get(ap.ID.String())
	assert.Equal(t, string(domain.StatusScheduled), cached.Status)
}

func TestConfirmAppointment_ProjectRefreshFailureStillCommits(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 1, string(project.StatusPlanning))
	ap := f.appointment(owner.ID, &p.ID, 200)

	repo := &failingRepo{StudioGormRepository: f.repo, failProjectStatus: true}

	res, err := f.confirmWith(repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, reconcile.StateCommitted, res.State)
	assert.Error(t, res.ProjectErr)
	assert.Empty(t, res.ProjectStatus)
	assert.Equal(t, string(domain.StatusCompleted), f.storedAppointment(ap.ID).Status)
	assert.Equal(t, string(project.StatusPlanning), f.storedProject(p.ID).Status)
}

func TestConfirmAppointment_NoProjectSkipsSession(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	ap := f.appointment(owner.ID, nil, 150)

	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
	})

	require.NoError(t, err)
	assert.Nil(t, res.SessionID)
	assert.NotNil(t, res.TransactionID)
	assert.Empty(t, res.ProjectStatus)
}

func TestConfirmAppointment_ZeroValueSkipsLedger(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 3, string(project.StatusPlanning))
	ap := f.appointment(owner.ID, &p.ID, 0)

	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
	})

	require.NoError(t, err)
	assert.True(t, res.LedgerSkipped)
	assert.Nil(t, res.TransactionID)
	assert.Empty(t, f.transactions())
	assert.Len(t, f.sessions(p.ID), 1)
}

func TestConfirmAppointment_DraftKey(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 2, string(project.StatusPlanning))

	draft := f.appointment(owner.ID, &p.ID, 100)
	// só na visão local: remove a linha gravada
	require.NoError(t, f.repo.DeleteAppointmentCascade(f.ctx, draft.ID))

	view := optimistic.NewCache()
	key := view.PutDraft(draft)

	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: key,
		ActingUserID:   owner.ID.String(),
		View:           view,
	})

	require.NoError(t, err)
	assert.Equal(t, reconcile.StateCommitted, res.State)

	sessions := f.sessions(p.ID)
	require.Len(t, sessions, 1)
	assert.Nil(t, sessions[0].AppointmentID)

	txs := f.transactions()
	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].AppointmentID)

	cached, _ := view.Get(key)
	assert.Equal(t, string(domain.StatusCompleted), cached.Status)
}

func TestConfirmAppointment_DraftRetryUpdatesRows(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 4, string(project.StatusPlanning))

	view := optimistic.NewCache()
	key := f.draft(view, owner.ID, &p.ID, 100)
	uc := f.confirmWith(f.repo)

	in := ConfirmInput{
		AppointmentKey: key,
		ActingUserID:   owner.ID.String(),
		Outcome:        Outcome{TechnicalNotes: "primeira"},
		View:           view,
	}
	first, err := uc.Execute(f.ctx, in)
	require.NoError(t, err)

	in.Outcome.TechnicalNotes = "segunda"
	second, err := uc.Execute(f.ctx, in)
	require.NoError(t, err)

	assert.Equal(t, reconcile.StateCommitted, second.State)
	assert.Equal(t, *first.SessionID, *second.SessionID)
	assert.Equal(t, *first.TransactionID, *second.TransactionID)

	sessions := f.sessions(p.ID)
	require.Len(t, sessions, 1)
	assert.Equal(t, "segunda", sessions[0].TechnicalNotes)
	assert.Len(t, f.transactions(), 1)

	refs := view.Refs(key)
	require.NotNil(t, refs.SessionID)
	require.NotNil(t, refs.TransactionID)
	assert.Equal(t, *first.SessionID, *refs.SessionID)
	assert.Equal(t, *first.TransactionID, *refs.TransactionID)
}

func TestConfirmAppointment_DraftRetryAfterLedgerFailure(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 4, string(project.StatusPlanning))

	view := optimistic.NewCache()
	key := f.draft(view, owner.ID, &p.ID, 100)
	repo := &failingRepo{StudioGormRepository: f.repo, failCreateTransaction: true}
	uc := f.confirmWith(repo)

	in := ConfirmInput{
		AppointmentKey: key,
		ActingUserID:   owner.ID.String(),
		View:           view,
	}

	first, err := uc.Execute(f.ctx, in)
	require.Error(t, err)
	assert.Equal(t, reconcile.StateRolledBack, first.State)
	require.NotNil(t, first.SessionID)
	assert.Len(t, f.sessions(p.ID), 1)
	assert.Empty(t, f.transactions())

	cached, _ := view.Get(key)
	assert.Equal(t, string(domain.StatusScheduled), cached.Status)

	repo.failCreateTransaction = false
	second, err := uc.Execute(f.ctx, in)
	require.NoError(t, err)

	assert.Equal(t, reconcile.StateCommitted, second.State)
	assert.Equal(t, *first.SessionID, *second.SessionID)
	assert.Len(t, f.sessions(p.ID), 1)
	assert.Len(t, f.transactions(), 1)
}

func TestConfirmAppointment_DraftOnForeignProjectIsForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	intruder := f.user("intruder")
	p := f.project(owner.ID, 1, string(project.StatusPlanning))

	view := optimistic.NewCache()
	key := f.draft(view, intruder.ID, &p.ID, 100)

	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: key,
		ActingUserID:   intruder.ID.String(),
		View:           view,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPermission)
	assert.Equal(t, reconcile.StageOwnership, reconcile.StageOf(err))
	assert.Equal(t, reconcile.StateForbidden, res.State)
	assert.Nil(t, res.SessionID)

	assert.Empty(t, f.sessions(p.ID))
	assert.Empty(t, f.transactions())
	assert.Equal(t, string(project.StatusPlanning), f.storedProject(p.ID).Status)

	cached, _ := view.Get(key)
	assert.Equal(t, string(domain.StatusScheduled), cached.Status)
}

func TestConfirmAppointment_DraftOnForeignClientIsForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	intruder := f.user("intruder")
	c := f.client(owner.ID, "Beatriz")

	view := optimistic.NewCache()
	ap := models.Appointment{
		OwnerUserID:    intruder.ID,
		ClientID:       &c.ID,
		Date:           time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC),
		StartTime:      "14:00",
		EndTime:        "17:00",
		Status:         string(domain.StatusScheduled),
		EstimatedValue: decimal.NewFromInt(100),
	}
	key := view.PutDraft(ap)

	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: key,
		ActingUserID:   intruder.ID.String(),
		View:           view,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPermission)
	assert.Equal(t, reconcile.StateForbidden, res.State)
	assert.Empty(t, f.transactions())
}

func TestConfirmAppointment_DraftOfAnotherUserIsForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	intruder := f.user("intruder")

	view := optimistic.NewCache()
	key := f.draft(view, owner.ID, nil, 100)

	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: key,
		ActingUserID:   intruder.ID.String(),
		View:           view,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPermission)
	assert.Equal(t, reconcile.StateForbidden, res.State)
	assert.Empty(t, f.transactions())
}

func TestConfirmAppointment_CancelledIsRejected(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	p := f.project(owner.ID, 2, string(project.StatusPlanning))
	ap := f.appointment(owner.ID, &p.ID, 100)
	require.NoError(t, f.repo.UpdateAppointmentStatus(f.ctx, ap.ID, domain.StatusCancelled, nil))

	view := optimistic.NewCache()
	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: ap.ID.String(),
		ActingUserID:   owner.ID.String(),
		View:           view,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrValidation)
	assert.Equal(t, reconcile.StateRequested, res.State)
	assert.Empty(t, f.sessions(p.ID))
	assert.Empty(t, f.transactions())

	cached, _ := view.Get(ap.ID.String())
	assert.Equal(t, string(domain.StatusCancelled), cached.Status)
}

func TestConfirmAppointment_UnknownAppointment(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")

	res, err := f.confirmWith(f.repo).Execute(f.ctx, ConfirmInput{
		AppointmentKey: "draft-missing",
		ActingUserID:   owner.ID.String(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrNotFound)
	assert.Equal(t, reconcile.StateRequested, res.State)
}
