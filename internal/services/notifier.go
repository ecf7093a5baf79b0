package services

import (
	"context"
	"fmt"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/pkg/logger"
)

// Notifier turns task events into notification records and pushes them to
// subscribed clients. It runs as the event queue's processor, either inline
// (sync mode) or on the async worker.
type Notifier struct {
	notifications repository.NotificationRepository
	preferences   repository.PreferenceRepository
	hub           *EventHub
}

func NewNotifier(notifications repository.NotificationRepository, preferences repository.PreferenceRepository, hub *EventHub) *Notifier {
	return &Notifier{notifications: notifications, preferences: preferences, hub: hub}
}

// Process derives a notification from one task event.
func (n *Notifier) Process(ctx context.Context, event *TaskEvent) error {
	if event.AssigneeID != nil {
		enabled, err := n.prefEnabled(ctx, *event.AssigneeID, event.Kind)
		if err != nil {
			return err
		}
		if !enabled {
			logger.Debug().Uint("user", *event.AssigneeID).Str("kind", event.Kind).Msg("notification suppressed by preference")
			return nil
		}
	}

	if event.Kind == EventTaskOverdue {
		// One overdue alert per task; repeated scans must not pile up duplicates.
		exists, err := n.notifications.ExistsForTask(ctx, event.TaskID, models.NotificationTypeOverdue)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
	}

	record := n.build(event)
	created, err := n.notifications.Create(ctx, record)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	n.hub.Publish(BoardEvent{
		Type:      "notification",
		ProjectID: event.ProjectID,
		TaskID:    event.TaskID,
		TaskTitle: event.TaskTitle,
	})

	logger.Info().
		Uint("notification", created.ID).
		Str("kind", event.Kind).
		Uint("task", event.TaskID).
		Msg("notification derived")
	return nil
}

func (n *Notifier) prefEnabled(ctx context.Context, userID uint, kind string) (bool, error) {
	pref, err := n.preferences.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	switch kind {
	case EventTaskAssigned:
		return pref.TaskAssigned, nil
	case EventTaskMoved:
		return pref.TaskMoved, nil
	case EventTaskCompleted:
		return pref.TaskCompleted, nil
	case EventTaskOverdue:
		return pref.DeadlineAlerts, nil
	default:
		return true, nil
	}
}

func (n *Notifier) build(event *TaskEvent) *models.Notification {
	taskID := event.TaskID
	record := &models.Notification{
		Priority: event.Priority,
		Project:  event.ProjectName,
		Assignee: event.AssigneeName,
		TaskID:   &taskID,
	}
	if record.Priority == "" {
		record.Priority = models.PriorityMedium
	}

	switch event.Kind {
	case EventTaskAssigned:
		record.Type = models.NotificationTypeAssigned
		record.Title = "Task assigned"
		record.Message = fmt.Sprintf("%q was assigned to %s in %s", event.TaskTitle, event.AssigneeName, event.ProjectName)
	case EventTaskMoved:
		record.Type = models.NotificationTypeMoved
		record.Title = "Task moved"
		record.Message = fmt.Sprintf("%q moved from %s to %s in %s", event.TaskTitle, event.FromColumn, event.ToColumn, event.ProjectName)
	case EventTaskCompleted:
		record.Type = models.NotificationTypeCompleted
		record.Title = "Task completed"
		record.Message = fmt.Sprintf("%q was completed in %s", event.TaskTitle, event.ProjectName)
	case EventTaskOverdue:
		record.Type = models.NotificationTypeOverdue
		record.Priority = models.PriorityHigh
		record.Title = "Task overdue"
		record.Message = fmt.Sprintf("%q in %s is past its due date", event.TaskTitle, event.ProjectName)
	default:
		record.Type = models.NotificationTypeSystem
		record.Title = "Board update"
		record.Message = fmt.Sprintf("%q changed in %s", event.TaskTitle, event.ProjectName)
	}
	return record
}
