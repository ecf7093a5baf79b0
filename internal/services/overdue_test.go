package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
)

// captureQueue records enqueued events instead of processing them.
type captureQueue struct {
	mu     sync.Mutex
	events []*TaskEvent
}

func (q *captureQueue) Enqueue(event *TaskEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, event)
	return nil
}

func (q *captureQueue) IsAsync() bool { return false }
func (q *captureQueue) Close() error  { return nil }

type staticTaskRepo struct{ tasks []models.Task }

func (r *staticTaskRepo) List(_ context.Context) ([]models.Task, error) {
	return append([]models.Task(nil), r.tasks...), nil
}
func (r *staticTaskRepo) ListByProject(_ context.Context, projectID uint) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}
func (r *staticTaskRepo) Get(_ context.Context, _ uint) (*models.Task, error) {
	return nil, repository.ErrNotFound
}
func (r *staticTaskRepo) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	return t, nil
}
func (r *staticTaskRepo) Update(_ context.Context, _ uint, _ repository.TaskPatch) (*models.Task, error) {
	return nil, repository.ErrNotFound
}
func (r *staticTaskRepo) Delete(_ context.Context, _ uint) error { return repository.ErrNotFound }

type staticProjectRepo struct{ projects []models.Project }

func (r *staticProjectRepo) List(_ context.Context) ([]models.Project, error) {
	return append([]models.Project(nil), r.projects...), nil
}
func (r *staticProjectRepo) Get(_ context.Context, id uint) (*models.Project, error) {
	for _, p := range r.projects {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (r *staticProjectRepo) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	return p, nil
}
func (r *staticProjectRepo) Update(_ context.Context, _ uint, _ repository.ProjectPatch) (*models.Project, error) {
	return nil, repository.ErrNotFound
}
func (r *staticProjectRepo) Delete(_ context.Context, _ uint) error          { return repository.ErrNotFound }
func (r *staticProjectRepo) AddMember(_ context.Context, _, _ uint) error    { return nil }
func (r *staticProjectRepo) RemoveMember(_ context.Context, _, _ uint) error { return nil }

type staticUserRepo struct{ users []models.User }

func (r *staticUserRepo) List(_ context.Context) ([]models.User, error) {
	return append([]models.User(nil), r.users...), nil
}
func (r *staticUserRepo) Get(_ context.Context, _ uint) (*models.User, error) {
	return nil, repository.ErrNotFound
}
func (r *staticUserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	return u, nil
}
func (r *staticUserRepo) Update(_ context.Context, _ uint, _ repository.UserPatch) (*models.User, error) {
	return nil, repository.ErrNotFound
}
func (r *staticUserRepo) Delete(_ context.Context, _ uint) error { return repository.ErrNotFound }

func TestOverdueScan_EmitsOnlyPastDueOpenTasks(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	assignee := uint(7)

	tasks := &staticTaskRepo{tasks: []models.Task{
		{ID: 1, ProjectID: 1, Title: "late", Status: models.ColumnKeyTodo, DueDate: &past, AssigneeID: &assignee},
		{ID: 2, ProjectID: 1, Title: "done late", Status: models.ColumnKeyDone, DueDate: &past},
		{ID: 3, ProjectID: 1, Title: "on time", Status: models.ColumnKeyTodo, DueDate: &future},
		{ID: 4, ProjectID: 1, Title: "no deadline", Status: models.ColumnKeyTodo},
	}}
	projects := &staticProjectRepo{projects: []models.Project{{ID: 1, Name: "Alpha"}}}
	users := &staticUserRepo{users: []models.User{{ID: 7, Name: "Dana"}}}
	queue := &captureQueue{}

	scanner := NewOverdueScanner(tasks, projects, users, queue, "0 9 * * *")
	if err := scanner.Scan(context.Background()); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(queue.events) != 1 {
		t.Fatalf("expected 1 overdue event, got %d", len(queue.events))
	}
	event := queue.events[0]
	if event.Kind != EventTaskOverdue {
		t.Errorf("Kind = %q, expected %q", event.Kind, EventTaskOverdue)
	}
	if event.TaskID != 1 {
		t.Errorf("TaskID = %d, expected 1", event.TaskID)
	}
	if event.ProjectName != "Alpha" {
		t.Errorf("ProjectName = %q, expected Alpha", event.ProjectName)
	}
	if event.AssigneeID == nil || *event.AssigneeID != 7 || event.AssigneeName != "Dana" {
		t.Errorf("assignee not resolved: %+v", event)
	}
}

func TestOverdueScan_NoOverdueTasks(t *testing.T) {
	queue := &captureQueue{}
	scanner := NewOverdueScanner(&staticTaskRepo{}, &staticProjectRepo{}, &staticUserRepo{}, queue, "0 9 * * *")
	if err := scanner.Scan(context.Background()); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(queue.events) != 0 {
		t.Errorf("expected 0 events, got %d", len(queue.events))
	}
}
