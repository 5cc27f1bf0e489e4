package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Project agrupa várias sessões de um mesmo cliente. O valor pago não é
// armazenado: é sempre a soma das sessões pagas.
type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_user_id"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client      *Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	Name                string          `gorm:"size:150;not null" json:"name"`
	PlannedSessionCount int             `gorm:"not null;default:0" json:"planned_session_count"`
	Status              string          `gorm:"size:20;not null;default:'planning'" json:"status"`
	TotalValue          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	newID(&p.ID)
	return nil
}
