package services

import (
	"context"
	"time"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OverdueScanner periodically walks the task set and emits an overdue event
// for every task past its due date that is not done. Deduplication happens
// in the Notifier, so repeated scans are safe. Scan can also be called on
// demand.
type OverdueScanner struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	queue    EventQueue

	cronExpr      string
	cronScheduler *cron.Cron
}

func NewOverdueScanner(tasks repository.TaskRepository, projects repository.ProjectRepository, users repository.UserRepository, queue EventQueue, cronExpr string) *OverdueScanner {
	return &OverdueScanner{
		tasks:    tasks,
		projects: projects,
		users:    users,
		queue:    queue,
		cronExpr: cronExpr,
	}
}

func (s *OverdueScanner) StartScheduler() {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc(s.cronExpr, func() {
		if err := s.Scan(context.Background()); err != nil {
			logger.Errorf("[OverdueScanner] Scan failed: %v", err)
		}
	}); err != nil {
		logger.Errorf("[OverdueScanner] Failed to add cron job: %v", err)
		return
	}

	s.cronScheduler.Start()
	logger.Infof("[OverdueScanner] Scheduler started (cron: %s)", s.cronExpr)
}

func (s *OverdueScanner) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// Scan enqueues an overdue event for every task that is past due and not
// done.
func (s *OverdueScanner) Scan(ctx context.Context) error {
	now := time.Now()

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return err
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return err
	}

	projectNames := make(map[uint]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}
	userNames := make(map[uint]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}

	emitted := 0
	for _, t := range tasks {
		if t.DueDate == nil || !t.DueDate.Before(now) || t.Status == models.ColumnKeyDone {
			continue
		}
		event := &TaskEvent{
			Kind:        EventTaskOverdue,
			TaskID:      t.ID,
			ProjectID:   t.ProjectID,
			ProjectName: projectNames[t.ProjectID],
			TaskTitle:   t.Title,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
		}
		if t.AssigneeID != nil {
			id := *t.AssigneeID
			event.AssigneeID = &id
			event.AssigneeName = userNames[id]
		}
		if err := s.queue.Enqueue(event); err != nil {
			logger.Errorf("[OverdueScanner] Enqueue failed for task %d: %v", t.ID, err)
			continue
		}
		emitted++
	}

	logger.Infof("[OverdueScanner] Scan complete: %d overdue events emitted", emitted)
	return nil
}
