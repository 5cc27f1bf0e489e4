package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/app"
	"github.com/BruksfildServices01/studio-scheduler/internal/handlers"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	cfg := a.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(a.DB, cfg)
	meHandler := handlers.NewMeHandler(a.DB)

	var names handlers.NameForgetter
	if a.Names != nil {
		names = a.Names
	}
	clientHandler := handlers.NewClientHandler(a.Repo, names)

	appointmentHandler := handlers.NewAppointmentHandler(
		a.CreateAppointment,
		a.EditAppointment,
		a.CancelAppointment,
		a.DeleteAppointment,
		a.ListAppointments,
		a.Confirm,
		a.Views,
		cfg.Timezone,
	)

	projectHandler := handlers.NewProjectHandler(
		a.Repo,
		a.Progress,
		a.Aggregator,
		a.SessionAdmin,
		a.Confirm,
		a.Views,
		cfg.Timezone,
	)

	sessionHandler := handlers.NewSessionHandler(a.SessionAdmin, cfg.Timezone)
	auditLogsHandler := handlers.NewAuditLogsHandler(a.DB, cfg.Timezone)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.POST("/me/appointments/drafts", appointmentHandler.Draft)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/appointments/view", appointmentHandler.View)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)

			// ------------------------------
			// PROJECTS / SESSIONS
			// ------------------------------
			secured.POST("/me/projects", projectHandler.Create)
			secured.GET("/me/projects", projectHandler.List)
			secured.GET("/me/projects/:id", projectHandler.Detail)
			secured.PATCH("/me/projects/:id/status", projectHandler.SetStatus)
			secured.POST("/me/projects/:id/recompute", projectHandler.Recompute)
			secured.POST("/me/projects/:id/sessions", projectHandler.RegisterSession)
			secured.PATCH("/me/projects/:id/appointments/:appointmentId/confirm", projectHandler.ConfirmAppointment)

			secured.PATCH("/me/sessions/:id", sessionHandler.Update)
			secured.DELETE("/me/sessions/:id", sessionHandler.Delete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
