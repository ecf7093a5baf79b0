package handlers

import (
	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments repository.CommentRepository
	tasks    repository.TaskRepository
}

func NewCommentHandler(comments repository.CommentRepository, tasks repository.TaskRepository) *CommentHandler {
	return &CommentHandler{comments: comments, tasks: tasks}
}

// ListComments returns a task's comments
// GET /api/tasks/:taskId/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	comments, err := h.comments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, comments)
}

type CreateCommentRequest struct {
	AuthorID uint   `json:"author_id" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

// CreateComment adds a comment to a task
// POST /api/tasks/:taskId/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.tasks.Get(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), &models.Comment{
		TaskID:   taskID,
		AuthorID: req.AuthorID,
		Body:     req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, comment)
}

type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// UpdateComment edits a comment's body
// PUT /api/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), id, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment removes a comment
// DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
