package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_user_id"`

	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	Project   *Project   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client   *Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// ClientName é denormalizado para a listagem; pode estar vazio.
	ClientName string `gorm:"size:100" json:"client_name"`

	Date      time.Time `gorm:"not null;index" json:"date"`
	StartTime string    `gorm:"size:5" json:"start_time"`
	EndTime   string    `gorm:"size:5" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	EstimatedValue decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"estimated_value"`
	Description    string          `gorm:"type:text" json:"description"`

	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	newID(&a.ID)
	return nil
}
