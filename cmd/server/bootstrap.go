package main

import (
	"github.com/flowboard/backend/internal/board"
	"github.com/flowboard/backend/internal/config"
	"github.com/flowboard/backend/internal/handlers"
	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/internal/services"
	"github.com/flowboard/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	stores         *repository.Stores
	boards         *board.Manager
	queue          services.EventQueue
	worker         *services.Worker
	overdueScanner *services.OverdueScanner

	boardHandler        *handlers.BoardHandler
	projectHandler      *handlers.ProjectHandler
	columnHandler       *handlers.ColumnHandler
	userHandler         *handlers.UserHandler
	commentHandler      *handlers.CommentHandler
	notificationHandler *handlers.NotificationHandler
	dashboardHandler    *handlers.DashboardHandler
	eventsHandler       *handlers.EventsHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	stores := repository.NewStores(models.GetDB())
	boards := board.NewManager(stores.Tasks, stores.Columns, stores.Users)
	hub := services.GetEventHub()

	// Notification derivation pipeline
	notifier := services.NewNotifier(stores.Notifications, stores.Preferences, hub)

	// Initialize event queue (uses Redis if enabled, otherwise sync mode)
	queue := services.InitEventQueue(cfg)
	if syncQueue, ok := queue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notifier.Process)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notifier.Process)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start async worker")
			}
		}
	}

	// Overdue task scanner
	overdueScanner := services.NewOverdueScanner(stores.Tasks, stores.Projects, stores.Users, queue, cfg.Scheduler.OverdueCron)
	overdueScanner.StartScheduler()

	projectService := services.NewProjectService(stores.Projects, stores.Columns, stores.Tasks)
	dashboardService := services.NewDashboardService(stores.Projects, stores.Tasks, stores.Users)
	notificationService := services.NewNotificationService(stores.Notifications, stores.Preferences)

	return &appServices{
		stores:         stores,
		boards:         boards,
		queue:          queue,
		worker:         worker,
		overdueScanner: overdueScanner,

		boardHandler:        handlers.NewBoardHandler(boards, stores.Projects, queue, hub),
		projectHandler:      handlers.NewProjectHandler(projectService, boards),
		columnHandler:       handlers.NewColumnHandler(stores.Columns, boards),
		userHandler:         handlers.NewUserHandler(stores.Users),
		commentHandler:      handlers.NewCommentHandler(stores.Comments, stores.Tasks),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		dashboardHandler:    handlers.NewDashboardHandler(dashboardService),
		eventsHandler:       handlers.NewEventsHandler(hub),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.overdueScanner.StopScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.queue != nil {
		s.queue.Close()
	}
}
