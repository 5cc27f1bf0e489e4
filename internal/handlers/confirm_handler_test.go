package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-scheduler/internal/app"
	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	"github.com/BruksfildServices01/studio-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/studio-scheduler/internal/handlers"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/routes"
)

type server struct {
	t      *testing.T
	app    *app.App
	router *gin.Engine
}

type confirmResponse struct {
	ErrorCode string `json:"error_code"`
	Stage     string `json:"stage"`
	Result    struct {
		State         string     `json:"state"`
		Status        string     `json:"status"`
		PriorStatus   string     `json:"prior_status"`
		SessionID     *uuid.UUID `json:"session_id"`
		TransactionID *uuid.UUID `json:"transaction_id"`
		ProjectStatus string     `json:"project_status"`
	} `json:"result"`
	ProjectStatusStale bool `json:"project_status_stale"`
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:             "test-secret",
		Timezone:              "UTC",
		CORSAllowedOrigins:    []string{"http://localhost:5173"},
		LedgerServiceCategory: "services",
		PlaceholderClientName: "Cliente",
	}

	a := app.New(dbtest.New(t), cfg, nil)
	t.Cleanup(a.Close)

	r := gin.New()
	routes.RegisterRoutes(r, a)

	return &server{t: t, app: a, router: r}
}

func (s *server) user(name string) (models.User, string) {
	s.t.Helper()
	u := models.User{Name: name, Email: name + "@studio.test", PasswordHash: "x"}
	require.NoError(s.t, s.app.DB.Create(&u).Error)

	token, err := handlers.GenerateToken(s.app.Config.JWTSecret, &u, time.Hour)
	require.NoError(s.t, err)
	return u, token
}

func (s *server) appointment(owner uuid.UUID) (models.Project, models.Appointment) {
	s.t.Helper()
	ctx := context.Background()

	p := models.Project{OwnerUserID: owner, Name: "Costas", PlannedSessionCount: 1, Status: "planning"}
	require.NoError(s.t, s.app.Repo.CreateProject(ctx, &p))

	ap := models.Appointment{
		OwnerUserID:    owner,
		ProjectID:      &p.ID,
		ClientName:     "Ana",
		Date:           time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Status:         "scheduled",
		EstimatedValue: decimal.NewFromInt(450),
	}
	require.NoError(s.t, s.app.Repo.CreateAppointment(ctx, &ap))
	return p, ap
}

func (s *server) patch(path, token string, body any) (int, confirmResponse) {
	s.t.Helper()
	return s.send(http.MethodPatch, path, token, body)
}

func (s *server) send(method, path, token string, body any) (int, confirmResponse) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out confirmResponse
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func TestConfirm_OwnerCommits(t *testing.T) {
	s := newServer(t)
	owner, token := s.user("owner")
	_, ap := s.appointment(owner.ID)

	code, body := s.patch("/api/me/appointments/"+ap.ID.String()+"/confirm", token, map[string]any{
		"technical_notes": "linha fina",
		"rating":          5,
	})

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "committed", body.Result.State)
	assert.Equal(t, "completed", body.Result.Status)
	assert.Equal(t, "scheduled", body.Result.PriorStatus)
	assert.Equal(t, "completed", body.Result.ProjectStatus)
	assert.NotNil(t, body.Result.SessionID)
	assert.NotNil(t, body.Result.TransactionID)
	assert.False(t, body.ProjectStatusStale)

	stored, err := s.app.Repo.GetAppointment(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", stored.Status)
}

func TestConfirm_OtherUserIsForbidden(t *testing.T) {
	s := newServer(t)
	owner, _ := s.user("owner")
	intruder, intruderToken := s.user("intruder")
	_, ap := s.appointment(owner.ID)

	code, body := s.patch("/api/me/appointments/"+ap.ID.String()+"/confirm", intruderToken, nil)

	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", body.ErrorCode)
	assert.Equal(t, "ownership", body.Stage)
	assert.Equal(t, "forbidden", body.Result.State)
	assert.Equal(t, "scheduled", body.Result.Status)

	stored, err := s.app.Repo.GetAppointment(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "scheduled", stored.Status)

	assert.Empty(t, s.app.Views.For(intruder.ID.String()).Items())
}

func TestDraft_ForeignProjectIsRejected(t *testing.T) {
	s := newServer(t)
	owner, _ := s.user("owner")
	intruder, intruderToken := s.user("intruder")
	p, _ := s.appointment(owner.ID)

	code, body := s.send(http.MethodPost, "/api/me/appointments/drafts", intruderToken, map[string]any{
		"project_id":      p.ID,
		"date":            "2024-05-10",
		"estimated_value": "100",
	})

	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "project_not_found", body.ErrorCode)
	assert.Empty(t, s.app.Views.For(intruder.ID.String()).Items())
}

func TestConfirm_FromProjectScreen(t *testing.T) {
	s := newServer(t)
	owner, token := s.user("owner")
	p, ap := s.appointment(owner.ID)

	code, _ := s.patch("/api/me/projects/"+uuid.NewString()+"/appointments/"+ap.ID.String()+"/confirm", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body := s.patch("/api/me/projects/"+p.ID.String()+"/appointments/"+ap.ID.String()+"/confirm", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "committed", body.Result.State)
	assert.Equal(t, "completed", body.Result.ProjectStatus)
}

func TestConfirm_RequiresToken(t *testing.T) {
	s := newServer(t)
	owner, _ := s.user("owner")
	_, ap := s.appointment(owner.ID)

	code, _ := s.patch("/api/me/appointments/"+ap.ID.String()+"/confirm", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
