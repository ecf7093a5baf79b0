package repository

import (
	"time"

	"github.com/flowboard/backend/internal/models"
)

// Patch structs enumerate the fields that are mutable after creation.
// A nil field means "leave unchanged". Fields absent here (task.ProjectID,
// entity IDs, creation timestamps) are immutable by construction.

type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *string
}

type ColumnPatch struct {
	Name     *string
	Color    *string
	Position *int
}

type TaskPatch struct {
	Title         *string
	Description   *string
	AssigneeID    *uint
	ClearAssignee bool
	Priority      *string
	Status        *string
	DueDate       *time.Time
	ClearDueDate  bool
	Position      *int
}

type UserPatch struct {
	Name   *string
	Email  *string
	Role   *string
	Avatar *string
}

func (p ProjectPatch) Apply(m *models.Project) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

func (p ColumnPatch) Apply(m *models.Column) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Color != nil {
		m.Color = *p.Color
	}
	if p.Position != nil {
		m.Position = *p.Position
	}
}

func (p TaskPatch) Apply(m *models.Task) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.ClearAssignee {
		m.AssigneeID = nil
	} else if p.AssigneeID != nil {
		id := *p.AssigneeID
		m.AssigneeID = &id
	}
	if p.Priority != nil {
		m.Priority = *p.Priority
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.ClearDueDate {
		m.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		m.DueDate = &d
	}
	if p.Position != nil {
		m.Position = *p.Position
	}
}

func (p UserPatch) Apply(m *models.User) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
	if p.Avatar != nil {
		m.Avatar = *p.Avatar
	}
}
