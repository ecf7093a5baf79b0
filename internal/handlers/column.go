package handlers

import (
	"github.com/flowboard/backend/internal/board"
	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type ColumnHandler struct {
	columns repository.ColumnRepository
	manager *board.Manager
}

func NewColumnHandler(columns repository.ColumnRepository, manager *board.Manager) *ColumnHandler {
	return &ColumnHandler{columns: columns, manager: manager}
}

// ListColumns returns a project's columns ordered by position
// GET /api/projects/:id/columns
func (h *ColumnHandler) ListColumns(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	cols, err := h.columns.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, cols)
}

type CreateColumnRequest struct {
	Key   string `json:"key" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CreateColumn appends a column to a project's board
// POST /api/projects/:id/columns
func (h *ColumnHandler) CreateColumn(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	col, err := h.columns.Create(c.Request.Context(), &models.Column{
		ProjectID: projectID,
		Key:       req.Key,
		Name:      req.Name,
		Color:     req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.manager.Invalidate(projectID)
	response.Created(c, col)
}

type UpdateColumnRequest struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	Position *int    `json:"position"`
}

// UpdateColumn edits a column's display attributes
// PUT /api/projects/:id/columns/:columnId
func (h *ColumnHandler) UpdateColumn(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	columnID, ok := parseUintParam(c, "columnId")
	if !ok {
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	col, err := h.columns.Update(c.Request.Context(), columnID, repository.ColumnPatch{
		Name:     req.Name,
		Color:    req.Color,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.manager.Invalidate(projectID)
	response.Success(c, col)
}

// DeleteColumn removes an empty column
// DELETE /api/projects/:id/columns/:columnId
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	columnID, ok := parseUintParam(c, "columnId")
	if !ok {
		return
	}

	col, err := h.columns.Get(c.Request.Context(), columnID)
	if err != nil {
		respondError(c, err)
		return
	}

	b, err := h.manager.Board(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(b.Tasks(col.Key)) > 0 {
		response.BadRequest(c, "column is not empty")
		return
	}

	if err := h.columns.Delete(c.Request.Context(), columnID); err != nil {
		respondError(c, err)
		return
	}
	h.manager.Invalidate(projectID)
	response.Success(c, gin.H{"deleted": true})
}
