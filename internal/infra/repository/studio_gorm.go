package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type StudioGormRepository struct {
	db *gorm.DB
}

func NewStudioGormRepository(db *gorm.DB) *StudioGormRepository {
	return &StudioGormRepository{db: db}
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *StudioGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment")
	}
	return &ap, nil
}

func (r *StudioGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.Status,
	completedAt *time.Time,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       string(status),
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment: %w", reconcile.ErrNotFound)
	}
	return nil
}

func (r *StudioGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *StudioGormRepository) UpdateAppointmentFields(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment: %w", reconcile.ErrNotFound)
	}
	return nil
}

func (r *StudioGormRepository) DeleteAppointmentCascade(
	ctx context.Context,
	id uuid.UUID,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("appointment_id = ?", id).
			Delete(&models.Session{}).Error; err != nil {
			return err
		}

		if err := tx.
			Where("appointment_id = ?", id).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Appointment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("appointment: %w", reconcile.ErrNotFound)
		}
		return nil
	})
}

func (r *StudioGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	ownerUserID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"owner_user_id = ? AND date >= ? AND date < ?",
			ownerUserID,
			start.UTC(),
			end.UTC(),
		).
		Order("date ASC, start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Session
// --------------------------------------------------

func (r *StudioGormRepository) FindSessionForAppointment(
	ctx context.Context,
	projectID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Session, error) {

	var s models.Session
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND appointment_id = ?", projectID, appointmentID).
		Limit(1).
		First(&s).Error; err != nil {
		return nil, notFound(err, "session")
	}
	return &s, nil
}

func (r *StudioGormRepository) CountSessions(
	ctx context.Context,
	projectID uuid.UUID,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StudioGormRepository) CreateSession(
	ctx context.Context,
	s *models.Session,
) error {
	return duplicate(r.db.WithContext(ctx).Create(s).Error, "session")
}

func (r *StudioGormRepository) UpdateSessionOutcome(
	ctx context.Context,
	id uuid.UUID,
	out domain.SessionOutcome,
) error {

	return r.UpdateSessionFields(ctx, id, map[string]any{
		"feedback":        out.Feedback,
		"technical_notes": out.TechnicalNotes,
		"rating":          out.Rating,
		"amount":          out.Amount,
		"date":            out.Date,
	})
}

func (r *StudioGormRepository) GetSession(
	ctx context.Context,
	id uuid.UUID,
) (*models.Session, error) {

	var s models.Session
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error; err != nil {
		return nil, notFound(err, "session")
	}
	return &s, nil
}

func (r *StudioGormRepository) UpdateSessionFields(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session: %w", reconcile.ErrNotFound)
	}
	return nil
}

func (r *StudioGormRepository) DeleteSession(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session: %w", reconcile.ErrNotFound)
	}
	return nil
}

func (r *StudioGormRepository) ListProjectSessions(
	ctx context.Context,
	projectID uuid.UUID,
) ([]models.Session, error) {

	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sequence_number ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *StudioGormRepository) FindTransactionByAppointment(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*models.Transaction, error) {

	var tx models.Transaction
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Limit(1).
		First(&tx).Error; err != nil {
		return nil, notFound(err, "transaction")
	}
	return &tx, nil
}

func (r *StudioGormRepository) CreateTransaction(
	ctx context.Context,
	tx *models.Transaction,
) error {
	return duplicate(r.db.WithContext(ctx).Create(tx).Error, "transaction")
}

func (r *StudioGormRepository) UpdateTransactionDescription(
	ctx context.Context,
	id uuid.UUID,
	description string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction: %w", reconcile.ErrNotFound)
	}
	return nil
}

// --------------------------------------------------
// Project
// --------------------------------------------------

func (r *StudioGormRepository) GetProject(
	ctx context.Context,
	id uuid.UUID,
) (*models.Project, error) {

	var p models.Project
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, notFound(err, "project")
	}
	return &p, nil
}

func (r *StudioGormRepository) UpdateProjectStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project: %w", reconcile.ErrNotFound)
	}
	return nil
}

func (r *StudioGormRepository) CountCompletedSessions(
	ctx context.Context,
	projectID uuid.UUID,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("project_id = ? AND payment_status <> ?", projectID, string(session.PaymentCancelled)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StudioGormRepository) SumPaidSessions(
	ctx context.Context,
	projectID uuid.UUID,
) (decimal.Decimal, error) {

	var amounts []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("project_id = ? AND payment_status = ?", projectID, string(session.PaymentPaid)).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

func (r *StudioGormRepository) CreateProject(
	ctx context.Context,
	p *models.Project,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *StudioGormRepository) ListProjects(
	ctx context.Context,
	ownerUserID uuid.UUID,
) ([]models.Project, error) {

	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *StudioGormRepository) GetClient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error; err != nil {
		return nil, notFound(err, "client")
	}
	return &c, nil
}

func (r *StudioGormRepository) CreateClient(
	ctx context.Context,
	c *models.Client,
) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *StudioGormRepository) UpdateClientFields(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("client: %w", reconcile.ErrNotFound)
	}
	return nil
}

func (r *StudioGormRepository) ListClients(
	ctx context.Context,
	ownerUserID uuid.UUID,
	query string,
) ([]models.Client, error) {

	q := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID)

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Compile-time check
var _ domain.Repository = (*StudioGormRepository)(nil)
