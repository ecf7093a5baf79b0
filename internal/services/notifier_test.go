package services

import (
	"context"
	"testing"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
)

type memNotificationRepo struct {
	created []models.Notification
	nextID  uint
}

func (r *memNotificationRepo) List(_ context.Context) ([]models.Notification, error) {
	out := append([]models.Notification(nil), r.created...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *memNotificationRepo) Get(_ context.Context, id uint) (*models.Notification, error) {
	for _, n := range r.created {
		if n.ID == id {
			found := n
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memNotificationRepo) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	r.nextID++
	created := *n
	created.ID = r.nextID
	r.created = append(r.created, created)
	return &created, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id uint) (*models.Notification, error) {
	for i := range r.created {
		if r.created[i].ID == id {
			r.created[i].IsRead = true
			found := r.created[i]
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context) error {
	for i := range r.created {
		r.created[i].IsRead = true
	}
	return nil
}

func (r *memNotificationRepo) Delete(_ context.Context, id uint) error {
	for i := range r.created {
		if r.created[i].ID == id {
			r.created = append(r.created[:i], r.created[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memNotificationRepo) DeleteAll(_ context.Context) error {
	r.created = nil
	return nil
}

func (r *memNotificationRepo) ExistsForTask(_ context.Context, taskID uint, notifType string) (bool, error) {
	for _, n := range r.created {
		if n.TaskID != nil && *n.TaskID == taskID && n.Type == notifType {
			return true, nil
		}
	}
	return false, nil
}

type memPreferenceRepo struct {
	prefs map[uint]models.NotificationPreference
}

func (r *memPreferenceRepo) Get(_ context.Context, userID uint) (*models.NotificationPreference, error) {
	if p, ok := r.prefs[userID]; ok {
		pref := p
		return &pref, nil
	}
	// Everything on, matching the persisted defaults.
	return &models.NotificationPreference{
		UserID:         userID,
		EmailEnabled:   true,
		PushEnabled:    true,
		TaskAssigned:   true,
		TaskMoved:      true,
		TaskCompleted:  true,
		DeadlineAlerts: true,
	}, nil
}

func (r *memPreferenceRepo) Upsert(_ context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	if r.prefs == nil {
		r.prefs = make(map[uint]models.NotificationPreference)
	}
	r.prefs[pref.UserID] = *pref
	p := *pref
	return &p, nil
}

func newTestNotifier() (*Notifier, *memNotificationRepo, *memPreferenceRepo, *EventHub) {
	notifications := &memNotificationRepo{}
	preferences := &memPreferenceRepo{}
	hub := NewEventHub()
	return NewNotifier(notifications, preferences, hub), notifications, preferences, hub
}

func TestNotifier_MoveEvent(t *testing.T) {
	n, repo, _, _ := newTestNotifier()

	err := n.Process(context.Background(), &TaskEvent{
		Kind:        EventTaskMoved,
		TaskID:      1,
		ProjectID:   1,
		ProjectName: "Alpha",
		TaskTitle:   "Fix login",
		FromColumn:  "todo",
		ToColumn:    "inprogress",
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.created))
	}
	record := repo.created[0]
	if record.Type != models.NotificationTypeMoved {
		t.Errorf("Type = %q, expected %q", record.Type, models.NotificationTypeMoved)
	}
	if record.IsRead {
		t.Error("derived notification should start unread")
	}
	if record.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, expected default medium", record.Priority)
	}
}

func TestNotifier_CompletedEvent(t *testing.T) {
	n, repo, _, _ := newTestNotifier()

	err := n.Process(context.Background(), &TaskEvent{
		Kind:        EventTaskCompleted,
		TaskID:      2,
		ProjectName: "Alpha",
		TaskTitle:   "Ship release",
		Priority:    models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if repo.created[0].Type != models.NotificationTypeCompleted {
		t.Errorf("Type = %q", repo.created[0].Type)
	}
	if repo.created[0].Priority != models.PriorityHigh {
		t.Errorf("event priority should be kept, got %q", repo.created[0].Priority)
	}
}

func TestNotifier_SuppressedByPreference(t *testing.T) {
	n, repo, prefs, _ := newTestNotifier()
	prefs.prefs = map[uint]models.NotificationPreference{
		7: {UserID: 7, TaskAssigned: false, TaskMoved: true, TaskCompleted: true, DeadlineAlerts: true},
	}

	assignee := uint(7)
	err := n.Process(context.Background(), &TaskEvent{
		Kind:       EventTaskAssigned,
		TaskID:     1,
		AssigneeID: &assignee,
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("suppressed event still created %d notifications", len(repo.created))
	}
}

func TestNotifier_OverdueDeduplicated(t *testing.T) {
	n, repo, _, _ := newTestNotifier()

	event := &TaskEvent{
		Kind:        EventTaskOverdue,
		TaskID:      5,
		ProjectName: "Alpha",
		TaskTitle:   "Pay invoice",
	}
	if err := n.Process(context.Background(), event); err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	if err := n.Process(context.Background(), event); err != nil {
		t.Fatalf("second Process failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected 1 overdue notification after two scans, got %d", len(repo.created))
	}
	if repo.created[0].Priority != models.PriorityHigh {
		t.Errorf("overdue notifications are high priority, got %q", repo.created[0].Priority)
	}
}

func TestNotifier_PublishesToHub(t *testing.T) {
	n, _, _, hub := newTestNotifier()
	ch := hub.Subscribe("client1")
	defer hub.Unsubscribe("client1")

	err := n.Process(context.Background(), &TaskEvent{
		Kind:      EventTaskMoved,
		TaskID:    9,
		TaskTitle: "Update docs",
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	select {
	case event := <-ch:
		if event.Type != "notification" {
			t.Errorf("Type = %q, expected notification", event.Type)
		}
		if event.TaskID != 9 {
			t.Errorf("TaskID = %d, expected 9", event.TaskID)
		}
	default:
		t.Error("expected a hub event for the derived notification")
	}
}
