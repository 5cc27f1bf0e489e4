package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// NameForgetter invalida o nome em cache de um cliente editado.
type NameForgetter interface {
	Forget(ctx context.Context, clientID uuid.UUID)
}

type ClientHandler struct {
	repo  domain.Repository
	names NameForgetter
}

// NewClientHandler aceita names nil (sem cache).
func NewClientHandler(repo domain.Repository, names NameForgetter) *ClientHandler {
	return &ClientHandler{repo: repo, names: names}
}

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.repo.ListClients(c.Request.Context(), middleware.UserID(c), c.Query("query"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_clients",
		})
		return
	}

	c.JSON(http.StatusOK, clients)
}

// ======================================================
// CREATE
// ======================================================
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	client := models.Client{
		OwnerUserID: middleware.UserID(c),
		Name:        strings.TrimSpace(req.Name),
		Phone:       req.Phone,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
	}

	if err := h.repo.CreateClient(c.Request.Context(), &client); err != nil {
		httperr.Internal(c, "failed_to_create_client", "Erro ao criar cliente.")
		return
	}

	httpresp.Created(c, client)
}

// ======================================================
// UPDATE
// ======================================================
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	client, err := h.repo.GetClient(ctx, id)
	if err != nil || client.OwnerUserID != middleware.UserID(c) {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
		fields["name"] = client.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
		fields["phone"] = client.Phone
	}
	if req.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		fields["email"] = client.Email
	}

	if len(fields) > 0 {
		if err := h.repo.UpdateClientFields(ctx, id, fields); err != nil {
			httperr.Internal(c, "failed_to_update_client", "Erro ao atualizar cliente.")
			return
		}
	}

	if req.Name != nil && h.names != nil {
		h.names.Forget(ctx, id)
	}

	c.JSON(http.StatusOK, client)
}
