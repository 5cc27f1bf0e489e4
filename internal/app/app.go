// Package app monta os casos de uso do estúdio sobre um banco aberto. A API e
// o studioctl usam a mesma montagem.
package app

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/cache"
	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	infraRepo "github.com/BruksfildServices01/studio-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/studio-scheduler/internal/optimistic"
	ucAppointment "github.com/BruksfildServices01/studio-scheduler/internal/usecase/appointment"
	ucReconcile "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reconcile"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Repo   *infraRepo.StudioGormRepository

	Audit *audit.Dispatcher
	Views *optimistic.Registry
	Redis *redis.Client
	// Names é nil sem Redis.
	Names *cache.ClientNames

	Guard      *ucReconcile.OwnershipGuard
	Sessions   *ucReconcile.SessionReconciler
	Ledger     *ucReconcile.LedgerSync
	Resolver   *ucReconcile.ClientNameResolver
	Aggregator *ucReconcile.StatusAggregator

	Confirm      *ucReconcile.ConfirmAppointment
	SessionAdmin *ucReconcile.Sessions
	Progress     *ucReconcile.ProjectProgress

	CreateAppointment *ucAppointment.CreateAppointment
	EditAppointment   *ucAppointment.EditAppointment
	CancelAppointment *ucAppointment.CancelAppointment
	DeleteAppointment *ucAppointment.DeleteAppointment
	ListAppointments  *ucAppointment.ListAppointments
}

// New monta tudo. rdb pode ser nil (cache de nomes desligado).
func New(db *gorm.DB, cfg *config.Config, rdb *redis.Client) *App {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewStudioGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db))

	a := &App{
		Config: cfg,
		DB:     db,
		Repo:   repo,
		Audit:  dispatcher,
		Views:  optimistic.NewRegistry(),
		Redis:  rdb,
	}

	var names ucReconcile.NameCache
	if rdb != nil {
		a.Names = cache.NewClientNames(rdb, time.Duration(cfg.NameCacheTTLMin)*time.Minute)
		names = a.Names
	}

	// ======================================================
	// 🧠 RECONCILIAÇÃO
	// ======================================================
	a.Guard = ucReconcile.NewOwnershipGuard(repo)
	a.Sessions = ucReconcile.NewSessionReconciler(repo)
	a.Ledger = ucReconcile.NewLedgerSync(repo, cfg.LedgerServiceCategory)
	a.Resolver = ucReconcile.NewClientNameResolver(repo, repo, names, cfg.PlaceholderClientName)
	a.Aggregator = ucReconcile.NewStatusAggregator(repo)

	a.Confirm = ucReconcile.NewConfirmAppointment(
		repo,
		a.Guard,
		a.Sessions,
		a.Ledger,
		a.Resolver,
		a.Aggregator,
		dispatcher,
		cfg.Timezone,
	)
	a.SessionAdmin = ucReconcile.NewSessions(repo, a.Sessions, a.Aggregator, dispatcher)
	a.Progress = ucReconcile.NewProjectProgress(repo)

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	a.CreateAppointment = ucAppointment.NewCreateAppointment(repo, dispatcher, cfg.Timezone)
	a.EditAppointment = ucAppointment.NewEditAppointment(repo, a.Ledger, a.Resolver, dispatcher, cfg.Timezone)
	a.CancelAppointment = ucAppointment.NewCancelAppointment(repo, dispatcher, cfg.Timezone)
	a.DeleteAppointment = ucAppointment.NewDeleteAppointment(repo, a.Aggregator, dispatcher)
	a.ListAppointments = ucAppointment.NewListAppointments(repo, cfg.Timezone)

	return a
}

// Connect abre o Redis configurado (nil se desligado) e monta o App.
func Connect(ctx context.Context, db *gorm.DB, cfg *config.Config) *App {
	return New(db, cfg, cache.NewRedisClient(ctx, cfg.RedisAddr))
}

// Close grava a auditoria pendente e fecha o Redis.
func (a *App) Close() {
	a.Audit.Close()
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
