package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

type SessionHandler struct {
	sessionsUC *ucReconcile.Sessions
	timezone   string
}

func NewSessionHandler(sessionsUC *ucReconcile.Sessions, tz string) *SessionHandler {
	return &SessionHandler{sessionsUC: sessionsUC, timezone: tz}
}

// --------- Requests ---------

type SessionRequest struct {
	Date           string          `json:"date" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentStatus  string          `json:"payment_status"`
	TechnicalNotes string          `json:"technical_notes"`
	Feedback       *string         `json:"feedback"`
	Rating         *int            `json:"rating" binding:"omitempty,min=1,max=5"`
}

func (r SessionRequest) toRegister(c *gin.Context, tz string) (ucReconcile.RegisterSessionInput, bool) {
	date, err := timezone.ParseDate(tz, r.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return ucReconcile.RegisterSessionInput{}, false
	}
	if r.Amount.IsNegative() {
		httperr.BadRequest(c, "invalid_value", "Valor inválido.")
		return ucReconcile.RegisterSessionInput{}, false
	}

	return ucReconcile.RegisterSessionInput{
		Date:           date.UTC(),
		Amount:         r.Amount,
		PaymentStatus:  session.PaymentStatus(r.PaymentStatus),
		TechnicalNotes: r.TechnicalNotes,
		Feedback:       r.Feedback,
		Rating:         r.Rating,
	}, true
}

type UpdateSessionRequest struct {
	Date           *string          `json:"date"`
	Amount         *decimal.Decimal `json:"amount"`
	PaymentStatus  *string          `json:"payment_status"`
	TechnicalNotes *string          `json:"technical_notes"`
	Feedback       *string          `json:"feedback"`
	Rating         *int             `json:"rating" binding:"omitempty,min=1,max=5"`
}

// --------- Handlers ---------

func (h *SessionHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucReconcile.UpdateSessionInput{
		SessionID:      id,
		OwnerUserID:    middleware.UserID(c),
		Amount:         req.Amount,
		TechnicalNotes: req.TechnicalNotes,
		Feedback:       req.Feedback,
		Rating:         req.Rating,
	}

	if req.Date != nil {
		date, err := timezone.ParseDate(h.timezone, *req.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		date = date.UTC()
		in.Date = &date
	}
	if req.PaymentStatus != nil {
		ps := session.PaymentStatus(*req.PaymentStatus)
		in.PaymentStatus = &ps
	}

	change, err := h.sessionsUC.Update(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err, "Erro ao atualizar sessão.")
		return
	}

	c.JSON(http.StatusOK, change)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	status, err := h.sessionsUC.Delete(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err, "Erro ao excluir sessão.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project_status": status})
}
