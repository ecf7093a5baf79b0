package handlers

import (
	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers returns all users
// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, users)
}

// GetUser returns a single user
// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, user)
}

type CreateUserRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"omitempty,oneof=admin member viewer"`
	Avatar string `json:"avatar"`
}

// CreateUser registers a new user
// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	user, err := h.users.Create(c.Request.Context(), &models.User{
		Name:   req.Name,
		Email:  req.Email,
		Role:   role,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, user)
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Role   *string `json:"role" binding:"omitempty,oneof=admin member viewer"`
	Avatar *string `json:"avatar"`
}

// UpdateUser edits a user's profile
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, repository.UserPatch{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, user)
}

// DeleteUser removes a user
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
