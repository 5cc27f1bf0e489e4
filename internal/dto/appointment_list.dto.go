package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

// AppointmentListDTO é a linha da tela de agendamentos. Key é o id gravado ou
// a chave do rascunho local.
type AppointmentListDTO struct {
	Key            string          `json:"key"`
	ProjectID      *uuid.UUID      `json:"project_id"`
	Date           string          `json:"date"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	Status         string          `json:"status"`
	ClientName     string          `json:"client_name"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Description    string          `json:"description"`
}

func NewAppointmentListDTO(key string, ap models.Appointment, tz string) AppointmentListDTO {
	name := ap.ClientName
	if name == "" && ap.Client != nil {
		name = ap.Client.Name
	}

	return AppointmentListDTO{
		Key:            key,
		ProjectID:      ap.ProjectID,
		Date:           timezone.FormatDate(ap.Date.In(timezone.Location(tz))),
		StartTime:      ap.StartTime,
		EndTime:        ap.EndTime,
		Status:         ap.Status,
		ClientName:     name,
		EstimatedValue: ap.EstimatedValue,
		Description:    ap.Description,
	}
}
