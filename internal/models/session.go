package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Session registra uma sessão realizada dentro de um projeto. O par
// (project_id, appointment_id) é único quando appointment_id não é nulo.
type Session struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProjectID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_session_project_appointment,priority:1" json:"project_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_session_project_appointment,priority:2" json:"appointment_id"`

	SequenceNumber int       `gorm:"not null" json:"sequence_number"`
	Date           time.Time `gorm:"not null" json:"date"`

	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"amount"`
	PaymentStatus string          `gorm:"size:20;not null;default:'pending'" json:"payment_status"`

	TechnicalNotes string  `gorm:"type:text" json:"technical_notes"`
	Feedback       *string `gorm:"type:text" json:"feedback"`
	Rating         *int    `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(*gorm.DB) error {
	newID(&s.ID)
	return nil
}
