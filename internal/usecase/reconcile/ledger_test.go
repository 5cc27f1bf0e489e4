package reconcile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
)

func TestLedgerSync_ZeroAmountSkips(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	ap := f.appointment(owner.ID, nil, 0)

	// sem leitura nem escrita: um store com falha em tudo não é tocado
	repo := &failingRepo{StudioGormRepository: f.repo, failFindTransaction: true, failCreateTransaction: true}

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		res, err := NewLedgerSync(repo, "").Sync(f.ctx, LedgerInput{
			AppointmentID: &ap.ID,
			OwnerUserID:   owner.ID,
			Amount:        amount,
			DueDate:       time.Now().UTC(),
			Description:   "Sessão - Ana (10/05/2024)",
		})
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Nil(t, res.TransactionID)
	}
	assert.Empty(t, f.transactions())
}

func TestLedgerSync_CreatesThenUpdatesDescription(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	ap := f.appointment(owner.ID, nil, 450)

	l := NewLedgerSync(f.repo, "")
	due := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)

	created, err := l.Sync(f.ctx, LedgerInput{
		AppointmentID: &ap.ID,
		OwnerUserID:   owner.ID,
		Amount:        decimal.NewFromInt(450),
		DueDate:       due,
		Description:   "Sessão - Ana (10/05/2024)",
		Settled:       true,
	})
	require.NoError(t, err)
	assert.True(t, created.Created)

	updated, err := l.Sync(f.ctx, LedgerInput{
		AppointmentID: &ap.ID,
		OwnerUserID:   owner.ID,
		Amount:        decimal.NewFromInt(999),
		DueDate:       due,
		Description:   "Sessão - Ana Souza (10/05/2024)",
	})
	require.NoError(t, err)
	assert.False(t, updated.Created)
	assert.Equal(t, *created.TransactionID, *updated.TransactionID)

	txs := f.transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, ledger.DefaultServiceCategory, txs[0].Category)
	assert.Equal(t, "Sessão - Ana Souza (10/05/2024)", txs[0].Description)
	// só a descrição muda
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(450)))
	require.NotNil(t, txs[0].SettlementDate)
	assert.True(t, txs[0].SettlementDate.Equal(due))
}

func TestLedgerSync_SyncDescriptionWithoutEntry(t *testing.T) {
	f := newFixture(t)

	res, err := NewLedgerSync(f.repo, "").SyncDescription(f.ctx, uuid.New(), "x")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
}

func TestLedgerSync_ReadErrorSurfaces(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	ap := f.appointment(owner.ID, nil, 450)
	repo := &failingRepo{StudioGormRepository: f.repo, failFindTransaction: true}

	_, err := NewLedgerSync(repo, "").Sync(f.ctx, LedgerInput{
		AppointmentID: &ap.ID,
		OwnerUserID:   owner.ID,
		Amount:        decimal.NewFromInt(450),
		DueDate:       time.Now().UTC(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPersistence)
	assert.NotErrorIs(t, err, reconcile.ErrNotFound)
	assert.Equal(t, reconcile.StageLedger, reconcile.StageOf(err))
}

func TestLedgerSync_KnownTransactionIDUpdates(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")

	l := NewLedgerSync(f.repo, "")
	due := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
	in := LedgerInput{
		OwnerUserID: owner.ID,
		Amount:      decimal.NewFromInt(100),
		DueDate:     due,
		Description: "Sessão - Ana (10/05/2024)",
	}

	created, err := l.Sync(f.ctx, in)
	require.NoError(t, err)
	require.True(t, created.Created)

	in.TransactionID = created.TransactionID
	in.Description = "Sessão - Ana Souza (10/05/2024)"
	updated, err := l.Sync(f.ctx, in)
	require.NoError(t, err)
	assert.False(t, updated.Created)
	assert.Equal(t, *created.TransactionID, *updated.TransactionID)

	txs := f.transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "Sessão - Ana Souza (10/05/2024)", txs[0].Description)

	// lançamento apagado: cria outro
	gone := uuid.New()
	in.TransactionID = &gone
	again, err := l.Sync(f.ctx, in)
	require.NoError(t, err)
	assert.True(t, again.Created)
	assert.Len(t, f.transactions(), 2)
}
