package reconcile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// NameCache guarda nomes de clientes já resolvidos. Pode ser nil.
type NameCache interface {
	Get(ctx context.Context, clientID uuid.UUID) (string, bool)
	Set(ctx context.Context, clientID uuid.UUID, name string)
}

// ClientNameResolver resolve o nome exibido no lançamento: nome denormalizado
// do agendamento, cliente do projeto, cliente do agendamento e, por último,
// o nome padrão.
type ClientNameResolver struct {
	projects    domain.ProjectStore
	clients     domain.ClientStore
	cache       NameCache
	placeholder string
	log         *slog.Logger
}

func NewClientNameResolver(
	projects domain.ProjectStore,
	clients domain.ClientStore,
	cache NameCache,
	placeholder string,
) *ClientNameResolver {
	if placeholder == "" {
		placeholder = "Cliente"
	}
	return &ClientNameResolver{
		projects:    projects,
		clients:     clients,
		cache:       cache,
		placeholder: placeholder,
		log:         slog.Default().With("component", "client_name_resolver"),
	}
}

func (r *ClientNameResolver) Resolve(ctx context.Context, ap *models.Appointment) string {
	if name := strings.TrimSpace(ap.ClientName); name != "" {
		return name
	}

	if ap.ProjectID != nil {
		p, err := r.projects.GetProject(ctx, *ap.ProjectID)
		if err != nil {
			r.log.Warn("project lookup failed", "project_id", *ap.ProjectID, "error", err)
		} else if p.ClientID != nil {
			if name := r.clientName(ctx, *p.ClientID); name != "" {
				return name
			}
		}
	}

	if ap.ClientID != nil {
		if name := r.clientName(ctx, *ap.ClientID); name != "" {
			return name
		}
	}

	return r.placeholder
}

func (r *ClientNameResolver) clientName(ctx context.Context, id uuid.UUID) string {
	if r.cache != nil {
		if name, ok := r.cache.Get(ctx, id); ok {
			return name
		}
	}

	c, err := r.clients.GetClient(ctx, id)
	if err != nil {
		r.log.Warn("client lookup failed", "client_id", id, "error", err)
		return ""
	}

	name := strings.TrimSpace(c.Name)
	if name != "" && r.cache != nil {
		r.cache.Set(ctx, id, name)
	}
	return name
}
