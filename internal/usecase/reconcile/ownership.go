package reconcile

import (
	"context"
	"log/slog"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type OwnershipStore interface {
	domain.AppointmentStore
	domain.ProjectStore
	domain.ClientStore
}

// OwnershipGuard confere se o usuário pode alterar um agendamento e as linhas
// às quais ele aponta.
type OwnershipGuard struct {
	store OwnershipStore
	log   *slog.Logger
}

func NewOwnershipGuard(store OwnershipStore) *OwnershipGuard {
	return &OwnershipGuard{
		store: store,
		log:   slog.Default().With("component", "ownership_guard"),
	}
}

// Verify só devolve true quando o dono gravado é exatamente actingUserID.
// Qualquer falha de leitura conta como não autorizado.
func (g *OwnershipGuard) Verify(
	ctx context.Context,
	appointmentID string,
	actingUserID string,
) bool {

	id, ok := reconcile.DurableID(appointmentID)
	if !ok || actingUserID == "" {
		return false
	}

	ap, err := g.store.GetAppointment(ctx, id)
	if err != nil {
		g.log.Warn("ownership lookup failed", "appointment_id", appointmentID, "error", err)
		return false
	}

	return ap.OwnerUserID.String() == actingUserID
}

// VerifyDraft confere um rascunho ainda não gravado: o dono do rascunho, do
// projeto e do cliente referenciados precisam ser actingUserID.
func (g *OwnershipGuard) VerifyDraft(
	ctx context.Context,
	ap *models.Appointment,
	actingUserID string,
) bool {

	if actingUserID == "" || ap.OwnerUserID.String() != actingUserID {
		return false
	}

	if ap.ProjectID != nil {
		p, err := g.store.GetProject(ctx, *ap.ProjectID)
		if err != nil {
			g.log.Warn("draft project lookup failed", "project_id", *ap.ProjectID, "error", err)
			return false
		}
		if p.OwnerUserID.String() != actingUserID {
			return false
		}
	}

	if ap.ClientID != nil {
		c, err := g.store.GetClient(ctx, *ap.ClientID)
		if err != nil {
			g.log.Warn("draft client lookup failed", "client_id", *ap.ClientID, "error", err)
			return false
		}
		if c.OwnerUserID.String() != actingUserID {
			return false
		}
	}

	return true
}
