package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/flowboard/backend/internal/board"
	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/internal/services"
	"github.com/flowboard/backend/pkg/logger"
	"github.com/flowboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// BoardHandler serves the per-project board view and the task mutations that
// flow through it.
type BoardHandler struct {
	manager  *board.Manager
	projects repository.ProjectRepository
	queue    services.EventQueue
	hub      *services.EventHub
}

func NewBoardHandler(manager *board.Manager, projects repository.ProjectRepository, queue services.EventQueue, hub *services.EventHub) *BoardHandler {
	return &BoardHandler{
		manager:  manager,
		projects: projects,
		queue:    queue,
		hub:      hub,
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondError maps core error kinds onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, board.ErrValidation):
		response.BadRequest(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// GetBoard returns the board view for a project
// GET /api/projects/:id/board
func (h *BoardHandler) GetBoard(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	b, err := h.manager.Refresh(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, b.View())
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssigneeID  *uint      `json:"assignee_id"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateTask adds a task to a project's board
// POST /api/projects/:id/tasks
func (h *BoardHandler) CreateTask(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.manager.Board(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task, err := b.CreateTask(c.Request.Context(), models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Priority:    priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(services.BoardEvent{
		Type:      "task_created",
		ProjectID: projectID,
		TaskID:    task.ID,
		TaskTitle: task.Title,
	})
	if task.AssigneeID != nil {
		h.emit(c, b, task, services.EventTaskAssigned, "", "")
	}

	response.Created(c, task)
}

type UpdateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	AssigneeID    *uint      `json:"assignee_id"`
	ClearAssignee bool       `json:"clear_assignee"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status        *string    `json:"status"`
	DueDate       *time.Time `json:"due_date"`
	ClearDueDate  bool       `json:"clear_due_date"`
}

// UpdateTask edits a task's mutable fields
// PUT /api/projects/:id/tasks/:taskId
func (h *BoardHandler) UpdateTask(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.manager.Board(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := b.UpdateTask(c.Request.Context(), taskID, repository.TaskPatch{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		Priority:      req.Priority,
		Status:        req.Status,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(services.BoardEvent{
		Type:      "task_updated",
		ProjectID: projectID,
		TaskID:    task.ID,
		TaskTitle: task.Title,
	})
	if req.AssigneeID != nil && !req.ClearAssignee {
		h.emit(c, b, task, services.EventTaskAssigned, "", "")
	}

	response.Success(c, task)
}

type MoveTaskRequest struct {
	Column string `json:"column" binding:"required"`
}

// MoveTask transitions a task to another column
// POST /api/projects/:id/tasks/:taskId/move
func (h *BoardHandler) MoveTask(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.manager.Board(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	before, _, found := findTask(b, taskID)
	task, err := b.MoveTask(c.Request.Context(), taskID, req.Column)
	if err != nil {
		respondError(c, err)
		return
	}

	if found && before != task.Status {
		h.hub.Publish(services.BoardEvent{
			Type:       "task_moved",
			ProjectID:  projectID,
			TaskID:     task.ID,
			TaskTitle:  task.Title,
			FromColumn: before,
			ToColumn:   task.Status,
		})
		kind := services.EventTaskMoved
		if task.Status == models.ColumnKeyDone {
			kind = services.EventTaskCompleted
		}
		h.emit(c, b, task, kind, before, task.Status)
	}

	response.Success(c, task)
}

// DeleteTask removes a task from the board and the store
// DELETE /api/projects/:id/tasks/:taskId
func (h *BoardHandler) DeleteTask(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	b, err := h.manager.Board(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := b.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(services.BoardEvent{
		Type:      "task_deleted",
		ProjectID: projectID,
		TaskID:    taskID,
	})

	response.Success(c, gin.H{"deleted": true})
}

func findTask(b *board.Board, taskID uint) (status string, task models.Task, ok bool) {
	for _, t := range b.AllTasks() {
		if t.ID == taskID {
			return t.Status, t, true
		}
	}
	return "", models.Task{}, false
}

// emit enqueues a notification event for a task mutation, enriched with the
// project and assignee display names.
func (h *BoardHandler) emit(c *gin.Context, b *board.Board, task *models.Task, kind, from, to string) {
	event := &services.TaskEvent{
		Kind:       kind,
		TaskID:     task.ID,
		ProjectID:  task.ProjectID,
		TaskTitle:  task.Title,
		Priority:   task.Priority,
		FromColumn: from,
		ToColumn:   to,
		DueDate:    task.DueDate,
	}
	if project, err := h.projects.Get(c.Request.Context(), task.ProjectID); err == nil {
		event.ProjectName = project.Name
	}
	if task.AssigneeID != nil {
		id := *task.AssigneeID
		event.AssigneeID = &id
		for _, u := range b.Users() {
			if u.ID == id {
				event.AssigneeName = u.Name
				break
			}
		}
	}
	if err := h.queue.Enqueue(event); err != nil {
		logger.Warnf("Failed to enqueue %s event for task %d: %v", kind, task.ID, err)
	}
}
