package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses
const (
	ProjectStatusActive    = "active"
	ProjectStatusInactive  = "inactive"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Task priorities (also used for notifications)
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Well-known column keys. Boards may define additional columns; only "done"
// carries meaning for derived statistics.
const (
	ColumnKeyTodo       = "todo"
	ColumnKeyInProgress = "inprogress"
	ColumnKeyDone       = "done"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// User represents a team member
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:255" json:"email"`
	Role      string         `gorm:"size:50;default:member" json:"role"` // admin, member, viewer
	Avatar    string         `gorm:"size:500" json:"avatar,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Project represents a tracked project. Members is a many-to-many set of
// users; it is never empty after creation (defaults to the creator).
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:50;default:active" json:"status"` // active, inactive, completed, archived
	Members     []User         `gorm:"many2many:project_members" json:"members,omitempty"`
	CreatedBy   uint           `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Column represents one workflow column of a project board. Key is the value
// task statuses reference; it is unique within a project. Position is 1-based
// and dense per project.
type Column struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"not null;uniqueIndex:idx_project_column_key" json:"project_id"`
	Key       string         `gorm:"size:50;not null;uniqueIndex:idx_project_column_key" json:"key"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Color     string         `gorm:"size:20" json:"color"`
	Position  int            `gorm:"not null" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Task represents a single board item. ProjectID is immutable after creation.
// Status always references the Key of a live column of the same project;
// column membership is exactly this match.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"index;not null" json:"project_id"`
	Title       string         `gorm:"size:300;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	AssigneeID  *uint          `gorm:"index" json:"assignee_id,omitempty"`
	Priority    string         `gorm:"size:20;default:medium" json:"priority"` // low, medium, high
	Status      string         `gorm:"size:50;not null;index" json:"status"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Position    int            `json:"position"` // ordering within the (project, status) bucket
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Notification kinds
const (
	NotificationTypeAssigned  = "task_assigned"
	NotificationTypeMoved     = "task_moved"
	NotificationTypeCompleted = "task_completed"
	NotificationTypeOverdue   = "task_overdue"
	NotificationTypeSystem    = "system"
)

// Notification represents a user-facing event record. Project and Assignee
// are display names denormalized at creation time; TaskID links back to the
// originating task where one exists (used to deduplicate overdue alerts).
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:300;not null" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Type      string         `gorm:"size:50;default:system" json:"type"`
	Priority  string         `gorm:"size:20;default:medium" json:"priority"`
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	Timestamp time.Time      `gorm:"index" json:"timestamp"`
	Project   string         `gorm:"size:200" json:"project,omitempty"`
	Assignee  string         `gorm:"size:100" json:"assignee,omitempty"`
	TaskID    *uint          `gorm:"index" json:"task_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NotificationPreference holds a user's per-channel notification toggles.
type NotificationPreference struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex" json:"user_id"`
	EmailEnabled   bool           `gorm:"default:true" json:"email_enabled"`
	PushEnabled    bool           `gorm:"default:true" json:"push_enabled"`
	TaskAssigned   bool           `gorm:"default:true" json:"task_assigned"`
	TaskMoved      bool           `gorm:"default:true" json:"task_moved"`
	TaskCompleted  bool           `gorm:"default:true" json:"task_completed"`
	DeadlineAlerts bool           `gorm:"default:true" json:"deadline_alerts"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment represents a discussion entry attached to a task.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TaskID    uint           `gorm:"index;not null" json:"task_id"`
	AuthorID  uint           `gorm:"index;not null" json:"author_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
