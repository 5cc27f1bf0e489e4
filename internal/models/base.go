package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID gera o uuid no cliente; sqlite não tem gen_random_uuid().
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// AutoMigrate migra todas as tabelas do estúdio.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Project{},
		&Appointment{},
		&Session{},
		&Transaction{},
		&AuditLog{},
	)
}
