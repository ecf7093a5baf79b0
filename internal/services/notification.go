package services

import (
	"context"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
)

// FilterMode selects which notifications a listing returns.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterUnread FilterMode = "unread"
	FilterRead   FilterMode = "read"
)

// FilterNotifications filters by read state, preserving the input order (the
// repository read establishes timestamp-descending order; filtering never
// re-sorts).
func FilterNotifications(notifications []models.Notification, mode FilterMode) []models.Notification {
	if mode == FilterAll || mode == "" {
		return notifications
	}
	out := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		switch mode {
		case FilterUnread:
			if !n.IsRead {
				out = append(out, n)
			}
		case FilterRead:
			if n.IsRead {
				out = append(out, n)
			}
		}
	}
	return out
}

// CountUnread recomputes the unread total from the given set. Counts are
// always derived from a full set, never incremented, so concurrent external
// mutations cannot cause drift.
func CountUnread(notifications []models.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// NotificationService wraps the notification store with filtered reads and
// recomputed counts.
type NotificationService struct {
	notifications repository.NotificationRepository
	preferences   repository.PreferenceRepository
}

func NewNotificationService(notifications repository.NotificationRepository, preferences repository.PreferenceRepository) *NotificationService {
	return &NotificationService{notifications: notifications, preferences: preferences}
}

type NotificationListResponse struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
}

// List returns notifications filtered by mode along with the unread count of
// the full set.
func (s *NotificationService) List(ctx context.Context, mode FilterMode) (*NotificationListResponse, error) {
	all, err := s.notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	return &NotificationListResponse{
		Items:       FilterNotifications(all, mode),
		UnreadCount: CountUnread(all),
	}, nil
}

// UnreadCount recomputes the unread total from the store.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	all, err := s.notifications.List(ctx)
	if err != nil {
		return 0, err
	}
	return CountUnread(all), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) (*models.Notification, error) {
	return s.notifications.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.notifications.MarkAllRead(ctx)
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return s.notifications.Delete(ctx, id)
}

func (s *NotificationService) ClearAll(ctx context.Context) error {
	return s.notifications.DeleteAll(ctx)
}

func (s *NotificationService) GetPreferences(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	return s.preferences.Get(ctx, userID)
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	return s.preferences.Upsert(ctx, pref)
}
