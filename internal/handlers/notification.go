package handlers

import (
	"github.com/flowboard/backend/internal/services"
	"github.com/flowboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotifications returns notifications filtered by read state, newest
// first, along with the unread count over the whole set
// GET /api/notifications?filter=all|unread|read
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	mode := services.FilterMode(c.DefaultQuery("filter", "all"))
	switch mode {
	case services.FilterAll, services.FilterUnread, services.FilterRead:
	default:
		response.BadRequest(c, "invalid filter")
		return
	}

	list, err := h.service.List(c.Request.Context(), mode)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, list)
}

// GetUnreadCount returns the number of unread notifications
// GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// MarkRead marks one notification as read
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, n)
}

// MarkAllRead marks every notification as read
// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"marked": true})
}

// DeleteNotification removes one notification
// DELETE /api/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearNotifications removes all notifications
// DELETE /api/notifications
func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	if err := h.service.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// GetPreferences returns a user's notification preferences
// GET /api/users/:id/notification-preferences
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	prefs, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, prefs)
}

type UpdatePreferencesRequest struct {
	EmailEnabled   *bool `json:"email_enabled"`
	PushEnabled    *bool `json:"push_enabled"`
	TaskAssigned   *bool `json:"task_assigned"`
	TaskMoved      *bool `json:"task_moved"`
	TaskCompleted  *bool `json:"task_completed"`
	DeadlineAlerts *bool `json:"deadline_alerts"`
}

// UpdatePreferences updates a user's notification preferences
// PUT /api/users/:id/notification-preferences
func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	current, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	applyPref(&current.EmailEnabled, req.EmailEnabled)
	applyPref(&current.PushEnabled, req.PushEnabled)
	applyPref(&current.TaskAssigned, req.TaskAssigned)
	applyPref(&current.TaskMoved, req.TaskMoved)
	applyPref(&current.TaskCompleted, req.TaskCompleted)
	applyPref(&current.DeadlineAlerts, req.DeadlineAlerts)

	updated, err := h.service.UpdatePreferences(c.Request.Context(), current)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, updated)
}

func applyPref(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
