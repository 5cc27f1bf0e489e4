package appointment

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	at := now.UTC()
	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &at
	return nil
}

// Complete marca o agendamento como concluído. Reconfirmar mantém a data
// da primeira conclusão.
func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	if Status(ap.Status) == StatusCompleted && ap.CompletedAt != nil {
		return nil
	}

	at := now.UTC()
	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &at
	return nil
}

// Revert devolve o agendamento ao status anterior à confirmação otimista.
func Revert(ap *models.Appointment, prior Status, priorCompletedAt *time.Time) {
	ap.Status = string(prior)
	ap.CompletedAt = priorCompletedAt
}
