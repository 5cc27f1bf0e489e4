package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction é um lançamento financeiro. SettlementDate nulo significa pendente.
type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_user_id"`

	Type     string          `gorm:"size:20;not null" json:"type"`
	Category string          `gorm:"size:50" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	DueDate        time.Time  `gorm:"not null" json:"due_date"`
	SettlementDate *time.Time `json:"settlement_date"`

	Description   string     `gorm:"size:255" json:"description"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	newID(&t.ID)
	return nil
}
