package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// Buscas devolvem erro compatível com reconcile.ErrNotFound quando não há linha.

type AppointmentStore interface {
	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointmentStatus(
		ctx context.Context,
		id uuid.UUID,
		status Status,
		completedAt *time.Time,
	) error
}

// SessionOutcome são os campos de resultado que a reconciliação grava.
type SessionOutcome struct {
	Feedback       *string
	TechnicalNotes string
	Rating         *int
	Amount         decimal.Decimal
	Date           time.Time
}

type SessionStore interface {
	FindSessionForAppointment(
		ctx context.Context,
		projectID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Session, error)

	CountSessions(
		ctx context.Context,
		projectID uuid.UUID,
	) (int64, error)

	CreateSession(
		ctx context.Context,
		s *models.Session,
	) error

	UpdateSessionOutcome(
		ctx context.Context,
		id uuid.UUID,
		out SessionOutcome,
	) error
}

type LedgerStore interface {
	FindTransactionByAppointment(
		ctx context.Context,
		appointmentID uuid.UUID,
	) (*models.Transaction, error)

	CreateTransaction(
		ctx context.Context,
		tx *models.Transaction,
	) error

	UpdateTransactionDescription(
		ctx context.Context,
		id uuid.UUID,
		description string,
	) error
}

type ProjectStore interface {
	GetProject(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Project, error)

	UpdateProjectStatus(
		ctx context.Context,
		id uuid.UUID,
		status string,
	) error

	CountCompletedSessions(
		ctx context.Context,
		projectID uuid.UUID,
	) (int64, error)

	SumPaidSessions(
		ctx context.Context,
		projectID uuid.UUID,
	) (decimal.Decimal, error)
}

type ClientStore interface {
	GetClient(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Client, error)
}

// Repository reúne tudo o que os casos de uso do estúdio precisam do banco.
type Repository interface {
	AppointmentStore
	SessionStore
	LedgerStore
	ProjectStore
	ClientStore

	// -------- Appointment (CRUD) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointmentFields(
		ctx context.Context,
		id uuid.UUID,
		fields map[string]any,
	) error

	// DeleteAppointmentCascade remove o agendamento e as sessões e lançamentos
	// que apontam para ele, numa única transação.
	DeleteAppointmentCascade(
		ctx context.Context,
		id uuid.UUID,
	) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		ownerUserID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Session (manual) --------
	GetSession(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Session, error)

	UpdateSessionFields(
		ctx context.Context,
		id uuid.UUID,
		fields map[string]any,
	) error

	DeleteSession(
		ctx context.Context,
		id uuid.UUID,
	) error

	ListProjectSessions(
		ctx context.Context,
		projectID uuid.UUID,
	) ([]models.Session, error)

	// -------- Project / Client --------
	CreateProject(
		ctx context.Context,
		p *models.Project,
	) error

	ListProjects(
		ctx context.Context,
		ownerUserID uuid.UUID,
	) ([]models.Project, error)

	CreateClient(
		ctx context.Context,
		c *models.Client,
	) error

	UpdateClientFields(
		ctx context.Context,
		id uuid.UUID,
		fields map[string]any,
	) error

	ListClients(
		ctx context.Context,
		ownerUserID uuid.UUID,
		query string,
	) ([]models.Client, error)
}
