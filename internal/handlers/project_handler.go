package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/project"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/optimistic"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

// ======================================================
// HANDLER
// ======================================================

type ProjectHandler struct {
	repo       domain.Repository
	progressUC *ucReconcile.ProjectProgress
	aggregator *ucReconcile.StatusAggregator
	sessionsUC *ucReconcile.Sessions
	confirmUC  *ucReconcile.ConfirmAppointment

	views    *optimistic.Registry
	timezone string
}

func NewProjectHandler(
	repo domain.Repository,
	progressUC *ucReconcile.ProjectProgress,
	aggregator *ucReconcile.StatusAggregator,
	sessionsUC *ucReconcile.Sessions,
	confirmUC *ucReconcile.ConfirmAppointment,
	views *optimistic.Registry,
	tz string,
) *ProjectHandler {
	return &ProjectHandler{
		repo:       repo,
		progressUC: progressUC,
		aggregator: aggregator,
		sessionsUC: sessionsUC,
		confirmUC:  confirmUC,
		views:      views,
		timezone:   tz,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateProjectRequest struct {
	Name                string          `json:"name" binding:"required"`
	ClientID            *uuid.UUID      `json:"client_id"`
	PlannedSessionCount int             `json:"planned_session_count" binding:"min=0"`
	TotalValue          decimal.Decimal `json:"total_value"`
}

// ======================================================
// CREATE / LIST / DETAIL
// ======================================================

func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req.TotalValue.IsNegative() {
		httperr.BadRequest(c, "invalid_value", "Valor inválido.")
		return
	}

	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	if req.ClientID != nil {
		client, err := h.repo.GetClient(ctx, *req.ClientID)
		if err != nil || client.OwnerUserID != userID {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return
		}
	}

	p := models.Project{
		OwnerUserID:         userID,
		ClientID:            req.ClientID,
		Name:                strings.TrimSpace(req.Name),
		PlannedSessionCount: req.PlannedSessionCount,
		Status:              string(project.StatusPlanning),
		TotalValue:          req.TotalValue,
	}

	if err := h.repo.CreateProject(ctx, &p); err != nil {
		httperr.Internal(c, "failed_to_create_project", "Erro ao criar projeto.")
		return
	}

	httpresp.Created(c, p)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.repo.ListProjects(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_list_projects", "Erro ao listar projetos.")
		return
	}

	httpresp.List(c, projects)
}

func (h *ProjectHandler) Detail(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	progress, err := h.progressUC.Execute(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err, "Erro ao carregar projeto.")
		return
	}

	httpresp.OK(c, progress)
}

// Recompute recalcula o status a partir das sessões gravadas.
func (h *ProjectHandler) Recompute(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	p, err := h.repo.GetProject(ctx, id)
	if err != nil || p.OwnerUserID != middleware.UserID(c) {
		httperr.NotFound(c, "project_not_found", "Projeto não encontrado.")
		return
	}

	status, err := h.aggregator.Refresh(ctx, id)
	if err != nil {
		httperr.FromError(c, err, "Erro ao recalcular status.")
		return
	}

	httpresp.OK(c, gin.H{"project_id": id, "status": status})
}

type ProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus pausa ou cancela o projeto. Qualquer outro status retoma o cálculo
// automático a partir das sessões.
func (h *ProjectHandler) SetStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req ProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	requested := project.Status(req.Status)
	if !requested.Valid() {
		httperr.BadRequest(c, "invalid_status", "Status inválido.")
		return
	}

	ctx := c.Request.Context()

	p, err := h.repo.GetProject(ctx, id)
	if err != nil || p.OwnerUserID != middleware.UserID(c) {
		httperr.NotFound(c, "project_not_found", "Projeto não encontrado.")
		return
	}

	if err := h.repo.UpdateProjectStatus(ctx, id, string(requested)); err != nil {
		httperr.Internal(c, "failed_to_update_project", "Erro ao atualizar projeto.")
		return
	}

	if requested.ManualHold() {
		httpresp.OK(c, gin.H{"project_id": id, "status": requested})
		return
	}

	status, err := h.aggregator.Refresh(ctx, id)
	if err != nil {
		httperr.FromError(c, err, "Erro ao recalcular status.")
		return
	}

	httpresp.OK(c, gin.H{"project_id": id, "status": status})
}

// ======================================================
// SESSIONS
// ======================================================

func (h *ProjectHandler) RegisterSession(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in, ok := req.toRegister(c, h.timezone)
	if !ok {
		return
	}
	in.ProjectID = id
	in.OwnerUserID = middleware.UserID(c)

	change, err := h.sessionsUC.RegisterPast(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err, "Erro ao registrar sessão.")
		return
	}

	httpresp.Created(c, change)
}

// ======================================================
// CONFIRM (tela do projeto)
// ======================================================

// ConfirmAppointment é a mesma confirmação da tela de agendamentos, restrita
// aos agendamentos do projeto.
func (h *ProjectHandler) ConfirmAppointment(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	key := c.Param("appointmentId")
	userID := middleware.UserID(c).String()
	view := h.views.For(userID)

	ap, found := view.Get(key)
	if !found {
		if id, err := uuid.Parse(key); err == nil {
			if stored, err := h.repo.GetAppointment(c.Request.Context(), id); err == nil {
				ap, found = *stored, true
			}
		}
	}
	if !found || ap.ProjectID == nil || *ap.ProjectID != projectID {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	outcome, ok := bindConfirm(c, h.timezone)
	if !ok {
		return
	}

	res, err := h.confirmUC.Execute(c.Request.Context(), ucReconcile.ConfirmInput{
		AppointmentKey: key,
		ActingUserID:   userID,
		Outcome:        outcome,
		View:           view,
	})

	writeConfirm(c, res, err)
}
