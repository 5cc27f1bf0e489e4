package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type LedgerInput struct {
	AppointmentID *uuid.UUID
	// TransactionID é o lançamento gravado por uma confirmação anterior do
	// mesmo rascunho.
	TransactionID *uuid.UUID
	OwnerUserID   uuid.UUID
	Amount        decimal.Decimal
	DueDate       time.Time
	Description   string
	// Settled grava o lançamento já quitado na data de vencimento.
	Settled bool
}

type LedgerResult struct {
	TransactionID *uuid.UUID
	Skipped       bool
	Created       bool
}

// LedgerSync mantém no máximo um lançamento por agendamento.
type LedgerSync struct {
	store    domain.LedgerStore
	category string
}

func NewLedgerSync(store domain.LedgerStore, category string) *LedgerSync {
	if category == "" {
		category = ledger.DefaultServiceCategory
	}
	return &LedgerSync{store: store, category: category}
}

func (l *LedgerSync) Sync(
	ctx context.Context,
	in LedgerInput,
) (LedgerResult, error) {

	// agendamento sem valor nunca gera lançamento
	if !in.Amount.IsPositive() {
		return LedgerResult{Skipped: true}, nil
	}

	if in.TransactionID != nil {
		res, err := l.describe(ctx, *in.TransactionID, in.Description)
		if !errors.Is(err, reconcile.ErrNotFound) {
			return res, err
		}
	}

	if in.AppointmentID != nil {
		existing, err := l.find(ctx, *in.AppointmentID)
		if err != nil {
			return LedgerResult{}, err
		}
		if existing != nil {
			return l.describe(ctx, existing.ID, in.Description)
		}
	}

	tx := &models.Transaction{
		OwnerUserID:   in.OwnerUserID,
		Type:          string(ledger.TypeRevenue),
		Category:      l.category,
		Amount:        in.Amount,
		DueDate:       in.DueDate,
		Description:   in.Description,
		AppointmentID: in.AppointmentID,
	}
	if in.Settled {
		settled := in.DueDate
		tx.SettlementDate = &settled
	}

	if err := l.store.CreateTransaction(ctx, tx); err != nil {
		if in.AppointmentID != nil && errors.Is(err, reconcile.ErrConflict) {
			// outra confirmação gravou o lançamento primeiro
			if existing, lerr := l.find(ctx, *in.AppointmentID); lerr == nil && existing != nil {
				return l.describe(ctx, existing.ID, in.Description)
			}
		}
		return LedgerResult{}, reconcile.Fail(reconcile.StageLedger, reconcile.ErrPersistence, err)
	}

	return LedgerResult{TransactionID: &tx.ID, Created: true}, nil
}

// SyncDescription atualiza a descrição do lançamento de um agendamento editado.
// Sem lançamento, não faz nada.
func (l *LedgerSync) SyncDescription(
	ctx context.Context,
	appointmentID uuid.UUID,
	description string,
) (LedgerResult, error) {

	existing, err := l.find(ctx, appointmentID)
	if err != nil {
		return LedgerResult{}, err
	}
	if existing == nil {
		return LedgerResult{Skipped: true}, nil
	}
	if existing.Description == description {
		return LedgerResult{TransactionID: &existing.ID}, nil
	}
	return l.describe(ctx, existing.ID, description)
}

// find devolve (nil, nil) quando não há lançamento para o agendamento.
func (l *LedgerSync) find(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*models.Transaction, error) {

	tx, err := l.store.FindTransactionByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			return nil, nil
		}
		return nil, reconcile.Fail(reconcile.StageLedger, reconcile.ErrPersistence, err)
	}
	return tx, nil
}

func (l *LedgerSync) describe(
	ctx context.Context,
	id uuid.UUID,
	description string,
) (LedgerResult, error) {

	if err := l.store.UpdateTransactionDescription(ctx, id, description); err != nil {
		return LedgerResult{}, reconcile.Persistence(reconcile.StageLedger, err)
	}
	return LedgerResult{TransactionID: &id}, nil
}
