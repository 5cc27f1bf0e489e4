package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-scheduler/internal/dto"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/optimistic"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/studio-scheduler/internal/usecase/appointment"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC  *ucAppointment.CreateAppointment
	editUC    *ucAppointment.EditAppointment
	cancelUC  *ucAppointment.CancelAppointment
	deleteUC  *ucAppointment.DeleteAppointment
	listUC    *ucAppointment.ListAppointments
	confirmUC *ucReconcile.ConfirmAppointment

	views    *optimistic.Registry
	timezone string
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	editUC *ucAppointment.EditAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	listUC *ucAppointment.ListAppointments,
	confirmUC *ucReconcile.ConfirmAppointment,
	views *optimistic.Registry,
	tz string,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:  createUC,
		editUC:    editUC,
		cancelUC:  cancelUC,
		deleteUC:  deleteUC,
		listUC:    listUC,
		confirmUC: confirmUC,
		views:     views,
		timezone:  tz,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProjectID      *uuid.UUID      `json:"project_id"`
	ClientID       *uuid.UUID      `json:"client_id"`
	ClientName     string          `json:"client_name"`
	Date           string          `json:"date" binding:"required"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Description    string          `json:"description"`
}

type UpdateAppointmentRequest struct {
	ClientID       *uuid.UUID       `json:"client_id"`
	ClientName     *string          `json:"client_name"`
	Date           *string          `json:"date"`
	StartTime      *string          `json:"start_time"`
	EndTime        *string          `json:"end_time"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	Description    *string          `json:"description"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	userID := middleware.UserID(c)

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		OwnerUserID:    userID,
		ProjectID:      req.ProjectID,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EstimatedValue: req.EstimatedValue,
		Description:    req.Description,
	})
	if err != nil {
		httperr.FromError(c, err, "Erro ao criar agendamento.")
		return
	}

	h.views.For(userID.String()).Put(ap.ID.String(), *ap)

	httpresp.Created(c, ap)
}

// Draft guarda um agendamento só na visão local, sem gravar. A chave devolvida
// pode ser confirmada como qualquer outra.
func (h *AppointmentHandler) Draft(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	userID := middleware.UserID(c)

	ap, err := h.createUC.Draft(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		OwnerUserID:    userID,
		ProjectID:      req.ProjectID,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EstimatedValue: req.EstimatedValue,
		Description:    req.Description,
	})
	if err != nil {
		httperr.FromError(c, err, "Erro ao criar rascunho.")
		return
	}

	key := h.views.For(userID.String()).PutDraft(*ap)

	httpresp.Created(c, dto.NewAppointmentListDTO(key, *ap, h.timezone))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := timezone.ParseDate(h.timezone, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	userID := middleware.UserID(c)

	out, err := h.listUC.ByDate(c.Request.Context(), userID, date, h.views.For(userID.String()))
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	userID := middleware.UserID(c)

	out, err := h.listUC.ByMonth(c.Request.Context(), userID, year, month, h.views.For(userID.String()))
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, out)
}

// View devolve a visão local inteira, com rascunhos e confirmações em curso.
func (h *AppointmentHandler) View(c *gin.Context) {
	view := h.views.For(middleware.UserID(c).String())

	items := view.Items()
	out := make([]dto.AppointmentListDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewAppointmentListDTO(it.Key, it.Appointment, h.timezone))
	}

	httpresp.List(c, out)
}

// ======================================================
// UPDATE / CANCEL / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	userID := middleware.UserID(c)

	ap, err := h.editUC.Execute(c.Request.Context(), ucAppointment.EditAppointmentInput{
		OwnerUserID:    userID,
		AppointmentID:  id,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EstimatedValue: req.EstimatedValue,
		Description:    req.Description,
	})
	if err != nil {
		httperr.FromError(c, err, "Erro ao atualizar agendamento.")
		return
	}

	h.views.For(userID.String()).Put(ap.ID.String(), *ap)

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	userID := middleware.UserID(c)

	ap, err := h.cancelUC.Execute(c.Request.Context(), userID, id)
	if err != nil {
		httperr.FromError(c, err, "Agendamento não pode ser cancelado.")
		return
	}

	h.views.For(userID.String()).Put(ap.ID.String(), *ap)

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	key := c.Param("id")
	userID := middleware.UserID(c)
	view := h.views.For(userID.String())

	id, err := uuid.Parse(key)
	if err != nil {
		// rascunho: só existe na visão local
		if _, ok := view.Get(key); !ok {
			httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
			return
		}
		view.Remove(key)
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), userID, id); err != nil {
		httperr.FromError(c, err, "Erro ao excluir agendamento.")
		return
	}

	view.Remove(key)
	c.Status(http.StatusNoContent)
}

// ======================================================
// CONFIRM
// ======================================================

// Confirm conclui o agendamento pela tela de agendamentos. :id pode ser o uuid
// gravado ou a chave de um rascunho.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	outcome, ok := bindConfirm(c, h.timezone)
	if !ok {
		return
	}

	userID := middleware.UserID(c).String()

	res, err := h.confirmUC.Execute(c.Request.Context(), ucReconcile.ConfirmInput{
		AppointmentKey: c.Param("id"),
		ActingUserID:   userID,
		Outcome:        outcome,
		View:           h.views.For(userID),
	})

	writeConfirm(c, res, err)
}
