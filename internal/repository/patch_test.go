package repository

import (
	"testing"
	"time"

	"github.com/flowboard/backend/internal/models"
)

func TestTaskPatch_NilFieldsLeaveValues(t *testing.T) {
	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	assignee := uint(4)
	task := models.Task{
		Title:      "original",
		Priority:   models.PriorityHigh,
		Status:     "todo",
		AssigneeID: &assignee,
		DueDate:    &due,
	}

	TaskPatch{}.Apply(&task)

	if task.Title != "original" || task.Priority != models.PriorityHigh || task.Status != "todo" {
		t.Errorf("empty patch modified fields: %+v", task)
	}
	if task.AssigneeID == nil || *task.AssigneeID != 4 {
		t.Error("empty patch cleared the assignee")
	}
	if task.DueDate == nil {
		t.Error("empty patch cleared the due date")
	}
}

func TestTaskPatch_SetsFields(t *testing.T) {
	task := models.Task{Title: "old", Status: "todo"}

	title := "new"
	status := "done"
	priority := models.PriorityLow
	TaskPatch{Title: &title, Status: &status, Priority: &priority}.Apply(&task)

	if task.Title != "new" || task.Status != "done" || task.Priority != models.PriorityLow {
		t.Errorf("patch not applied: %+v", task)
	}
}

func TestTaskPatch_ClearFlags(t *testing.T) {
	due := time.Now()
	assignee := uint(4)
	task := models.Task{AssigneeID: &assignee, DueDate: &due}

	TaskPatch{ClearAssignee: true, ClearDueDate: true}.Apply(&task)

	if task.AssigneeID != nil {
		t.Error("ClearAssignee should nil the assignee")
	}
	if task.DueDate != nil {
		t.Error("ClearDueDate should nil the due date")
	}
}

func TestTaskPatch_ClearWinsOverSet(t *testing.T) {
	assignee := uint(4)
	task := models.Task{}

	TaskPatch{AssigneeID: &assignee, ClearAssignee: true}.Apply(&task)
	if task.AssigneeID != nil {
		t.Error("ClearAssignee should take precedence over AssigneeID")
	}
}

func TestTaskPatch_CopiesPointerValues(t *testing.T) {
	assignee := uint(4)
	task := models.Task{}
	TaskPatch{AssigneeID: &assignee}.Apply(&task)

	assignee = 9
	if *task.AssigneeID != 4 {
		t.Error("patch must copy pointer values, not alias them")
	}
}

func TestProjectPatch(t *testing.T) {
	p := models.Project{Name: "old", Description: "d", Status: models.ProjectStatusActive}

	name := "new"
	status := models.ProjectStatusArchived
	ProjectPatch{Name: &name, Status: &status}.Apply(&p)

	if p.Name != "new" || p.Status != models.ProjectStatusArchived {
		t.Errorf("patch not applied: %+v", p)
	}
	if p.Description != "d" {
		t.Error("untouched field changed")
	}
}

func TestColumnPatch(t *testing.T) {
	c := models.Column{Name: "To Do", Color: "#ccc", Position: 1}

	pos := 3
	color := "#fff"
	ColumnPatch{Position: &pos, Color: &color}.Apply(&c)

	if c.Position != 3 || c.Color != "#fff" || c.Name != "To Do" {
		t.Errorf("patch not applied: %+v", c)
	}
}

func TestUserPatch(t *testing.T) {
	u := models.User{Name: "Dana", Email: "dana@example.com", Role: models.RoleMember}

	role := models.RoleAdmin
	UserPatch{Role: &role}.Apply(&u)

	if u.Role != models.RoleAdmin {
		t.Errorf("Role = %q, expected admin", u.Role)
	}
	if u.Name != "Dana" || u.Email != "dana@example.com" {
		t.Error("untouched fields changed")
	}
}
