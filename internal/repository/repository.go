// Package repository defines the persistence seam the board and statistics
// code depends on. The interfaces are storage-agnostic; the GORM
// implementations in this package are one collaborator, not part of the core.
package repository

import (
	"context"
	"errors"

	"github.com/flowboard/backend/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("entity not found")

type ProjectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id uint) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, id uint, patch ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id uint) error
	AddMember(ctx context.Context, projectID, userID uint) error
	RemoveMember(ctx context.Context, projectID, userID uint) error
}

type ColumnRepository interface {
	List(ctx context.Context) ([]models.Column, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Column, error)
	Get(ctx context.Context, id uint) (*models.Column, error)
	Create(ctx context.Context, c *models.Column) (*models.Column, error)
	Update(ctx context.Context, id uint, patch ColumnPatch) (*models.Column, error)
	Delete(ctx context.Context, id uint) error
}

type TaskRepository interface {
	List(ctx context.Context) ([]models.Task, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Task, error)
	Get(ctx context.Context, id uint) (*models.Task, error)
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	Update(ctx context.Context, id uint, patch TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id uint) error
}

type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	Update(ctx context.Context, id uint, patch UserPatch) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type NotificationRepository interface {
	// List returns notifications ordered by timestamp descending.
	List(ctx context.Context) ([]models.Notification, error)
	Get(ctx context.Context, id uint) (*models.Notification, error)
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	MarkRead(ctx context.Context, id uint) (*models.Notification, error)
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
	ExistsForTask(ctx context.Context, taskID uint, notifType string) (bool, error)
}

type PreferenceRepository interface {
	Get(ctx context.Context, userID uint) (*models.NotificationPreference, error)
	Upsert(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error)
}

type CommentRepository interface {
	ListByTask(ctx context.Context, taskID uint) ([]models.Comment, error)
	Get(ctx context.Context, id uint) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, id uint, body string) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
}
