package handlers

import (
	"github.com/flowboard/backend/internal/board"
	"github.com/flowboard/backend/internal/services"
	"github.com/flowboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	service *services.ProjectService
	manager *board.Manager
}

func NewProjectHandler(service *services.ProjectService, manager *board.Manager) *ProjectHandler {
	return &ProjectHandler{service: service, manager: manager}
}

// ListProjects returns all projects with members preloaded
// GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, projects)
}

// GetProject returns a single project
// GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	project, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, project)
}

// CreateProject creates a project with its default column set
// POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, project)
}

// UpdateProject edits project metadata
// PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, project)
}

// DeleteProject removes a project along with its tasks and columns
// DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.manager.Invalidate(id)
	response.Success(c, gin.H{"deleted": true})
}

type MemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// AddMember adds a user to a project's member list
// POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.AddMember(c.Request.Context(), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"added": true})
}

// RemoveMember removes a user from a project's member list
// DELETE /api/projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// GetStatusCounts returns project counts grouped by status
// GET /api/projects/status-counts
func (h *ProjectHandler) GetStatusCounts(c *gin.Context) {
	counts, err := h.service.CountByStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, counts)
}
