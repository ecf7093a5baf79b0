package main

import (
	"github.com/flowboard/backend/internal/middleware"
	"github.com/flowboard/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for write-heavy board routes
	boardLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "flowboard"})
	})

	// API routes
	api := r.Group("/api")
	{
		// SSE board events
		api.GET("/events", svc.eventsHandler.StreamBoardEvents)

		// Dashboard
		api.GET("/dashboard/stats", svc.dashboardHandler.GetStats)

		// Projects
		api.GET("/projects", svc.projectHandler.ListProjects)
		api.GET("/projects/status-counts", svc.projectHandler.GetStatusCounts)
		api.GET("/projects/:id", svc.projectHandler.GetProject)
		api.POST("/projects", svc.projectHandler.CreateProject)
		api.PUT("/projects/:id", svc.projectHandler.UpdateProject)
		api.DELETE("/projects/:id", svc.projectHandler.DeleteProject)
		api.POST("/projects/:id/members", svc.projectHandler.AddMember)
		api.DELETE("/projects/:id/members/:userId", svc.projectHandler.RemoveMember)

		// Board view and columns
		api.GET("/projects/:id/board", svc.boardHandler.GetBoard)
		api.GET("/projects/:id/columns", svc.columnHandler.ListColumns)
		api.POST("/projects/:id/columns", svc.columnHandler.CreateColumn)
		api.PUT("/projects/:id/columns/:columnId", svc.columnHandler.UpdateColumn)
		api.DELETE("/projects/:id/columns/:columnId", svc.columnHandler.DeleteColumn)

		// Tasks (rate limited, they fan out into the notification pipeline)
		tasks := api.Group("", boardLimiter.Middleware())
		{
			tasks.POST("/projects/:id/tasks", svc.boardHandler.CreateTask)
			tasks.PUT("/projects/:id/tasks/:taskId", svc.boardHandler.UpdateTask)
			tasks.POST("/projects/:id/tasks/:taskId/move", svc.boardHandler.MoveTask)
			tasks.DELETE("/projects/:id/tasks/:taskId", svc.boardHandler.DeleteTask)
		}

		// Comments
		api.GET("/tasks/:taskId/comments", svc.commentHandler.ListComments)
		api.POST("/tasks/:taskId/comments", svc.commentHandler.CreateComment)
		api.PUT("/comments/:id", svc.commentHandler.UpdateComment)
		api.DELETE("/comments/:id", svc.commentHandler.DeleteComment)

		// Users
		api.GET("/users", svc.userHandler.ListUsers)
		api.GET("/users/:id", svc.userHandler.GetUser)
		api.POST("/users", svc.userHandler.CreateUser)
		api.PUT("/users/:id", svc.userHandler.UpdateUser)
		api.DELETE("/users/:id", svc.userHandler.DeleteUser)
		api.GET("/users/:id/notification-preferences", svc.notificationHandler.GetPreferences)
		api.PUT("/users/:id/notification-preferences", svc.notificationHandler.UpdatePreferences)

		// Notifications
		api.GET("/notifications", svc.notificationHandler.ListNotifications)
		api.GET("/notifications/unread-count", svc.notificationHandler.GetUnreadCount)
		api.POST("/notifications/:id/read", svc.notificationHandler.MarkRead)
		api.POST("/notifications/read-all", svc.notificationHandler.MarkAllRead)
		api.DELETE("/notifications/:id", svc.notificationHandler.DeleteNotification)
		api.DELETE("/notifications", svc.notificationHandler.ClearNotifications)
	}
}
