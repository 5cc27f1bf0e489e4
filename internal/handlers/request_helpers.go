package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

// paramUUID lê um parâmetro de rota uuid; responde 400 e devolve false se inválido.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return uuid.Nil, false
	}
	return id, true
}

// ======================================================
// CONFIRMAÇÃO (compartilhada pelas duas telas)
// ======================================================

// ConfirmRequest é o resultado da sessão informado ao confirmar um agendamento.
type ConfirmRequest struct {
	Feedback       *string          `json:"feedback"`
	TechnicalNotes string           `json:"technical_notes"`
	Rating         *int             `json:"rating" binding:"omitempty,min=1,max=5"`
	Amount         *decimal.Decimal `json:"amount"`
	Date           *string          `json:"date"`
	Settled        bool             `json:"settled"`
}

func (r ConfirmRequest) toOutcome(tz string) (ucReconcile.Outcome, bool) {
	out := ucReconcile.Outcome{
		Feedback:       r.Feedback,
		TechnicalNotes: r.TechnicalNotes,
		Rating:         r.Rating,
		Amount:         r.Amount,
		Settled:        r.Settled,
	}
	if r.Date != nil && *r.Date != "" {
		d, err := timezone.ParseDate(tz, *r.Date)
		if err != nil {
			return out, false
		}
		d = d.UTC()
		out.Date = &d
	}
	return out, true
}

// bindConfirm lê o corpo opcional da confirmação; responde 400 se inválido.
func bindConfirm(c *gin.Context, tz string) (ucReconcile.Outcome, bool) {
	// corpo vazio confirma sem dados de sessão
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return ucReconcile.Outcome{}, false
	}

	out, ok := req.toOutcome(tz)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return ucReconcile.Outcome{}, false
	}
	return out, true
}

// writeConfirm responde a confirmação. O resultado vai junto mesmo com erro:
// a tela precisa do estado final e do status desfeito.
func writeConfirm(c *gin.Context, res *reconcile.Result, err error) {
	if err != nil {
		status := httperr.StatusFor(err)
		code := "confirmation_failed"
		switch status {
		case http.StatusForbidden:
			code = "forbidden"
		case http.StatusNotFound:
			code = "appointment_not_found"
		case http.StatusBadRequest:
			code = "invalid_state"
		}
		c.JSON(status, gin.H{
			"error_code": code,
			"message":    "Não foi possível confirmar o agendamento.",
			"stage":      reconcile.StageOf(err),
			"result":     res,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":               res,
		"project_status_stale": res.ProjectErr != nil,
	})
}
