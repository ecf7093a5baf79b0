package repository

import (
	"context"
	"errors"
	"time"

	"github.com/flowboard/backend/internal/models"
	"gorm.io/gorm"
)

// Stores bundles one repository per entity type, all backed by the same DB.
type Stores struct {
	Projects      ProjectRepository
	Columns       ColumnRepository
	Tasks         TaskRepository
	Users         UserRepository
	Notifications NotificationRepository
	Preferences   PreferenceRepository
	Comments      CommentRepository
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Projects:      &gormProjectRepo{db: db},
		Columns:       &gormColumnRepo{db: db},
		Tasks:         &gormTaskRepo{db: db},
		Users:         &gormUserRepo{db: db},
		Notifications: &gormNotificationRepo{db: db},
		Preferences:   &gormPreferenceRepo{db: db},
		Comments:      &gormCommentRepo{db: db},
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- projects ---

type gormProjectRepo struct {
	db *gorm.DB
}

func (r *gormProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Preload("Members").Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *gormProjectRepo) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("Members").First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *gormProjectRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *gormProjectRepo) Update(ctx context.Context, id uint, patch ProjectPatch) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	patch.Apply(&project)
	if err := r.db.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *gormProjectRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormProjectRepo) AddMember(ctx context.Context, projectID, userID uint) error {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		return translate(err)
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return translate(err)
	}
	return r.db.WithContext(ctx).Model(&project).Association("Members").Append(&user)
}

func (r *gormProjectRepo) RemoveMember(ctx context.Context, projectID, userID uint) error {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		return translate(err)
	}
	return r.db.WithContext(ctx).Model(&project).Association("Members").Delete(&models.User{ID: userID})
}

// --- columns ---

type gormColumnRepo struct {
	db *gorm.DB
}

func (r *gormColumnRepo) List(ctx context.Context) ([]models.Column, error) {
	var columns []models.Column
	if err := r.db.WithContext(ctx).Order("project_id, position").Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *gormColumnRepo) ListByProject(ctx context.Context, projectID uint) ([]models.Column, error) {
	var columns []models.Column
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("position").Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *gormColumnRepo) Get(ctx context.Context, id uint) (*models.Column, error) {
	var column models.Column
	if err := r.db.WithContext(ctx).First(&column, id).Error; err != nil {
		return nil, translate(err)
	}
	return &column, nil
}

func (r *gormColumnRepo) Create(ctx context.Context, c *models.Column) (*models.Column, error) {
	if c.Position == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&models.Column{}).Where("project_id = ?", c.ProjectID).Count(&count)
		c.Position = int(count) + 1
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *gormColumnRepo) Update(ctx context.Context, id uint, patch ColumnPatch) (*models.Column, error) {
	var column models.Column
	if err := r.db.WithContext(ctx).First(&column, id).Error; err != nil {
		return nil, translate(err)
	}
	patch.Apply(&column)
	if err := r.db.WithContext(ctx).Save(&column).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *gormColumnRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Column{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- tasks ---

type gormTaskRepo struct {
	db *gorm.DB
}

func (r *gormTaskRepo) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *gormTaskRepo) ListByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("position, id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *gormTaskRepo) Get(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *gormTaskRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t.Position == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&models.Task{}).
			Where("project_id = ? AND status = ?", t.ProjectID, t.Status).
			Count(&count)
		t.Position = int(count) + 1
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *gormTaskRepo) Update(ctx context.Context, id uint, patch TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	patch.Apply(&task)
	if err := r.db.WithContext(ctx).Save(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- users ---

type gormUserRepo struct {
	db *gorm.DB
}

func (r *gormUserRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepo) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (r *gormUserRepo) Update(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	patch.Apply(&user)
	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- notifications ---

type gormNotificationRepo struct {
	db *gorm.DB
}

func (r *gormNotificationRepo) List(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *gormNotificationRepo) Get(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, translate(err)
	}
	return &notification, nil
}

func (r *gormNotificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (r *gormNotificationRepo) MarkRead(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, translate(err)
	}
	notification.IsRead = true
	if err := r.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *gormNotificationRepo) MarkAllRead(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true).Error
}

func (r *gormNotificationRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormNotificationRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Notification{}).Error
}

func (r *gormNotificationRepo) ExistsForTask(ctx context.Context, taskID uint, notifType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("task_id = ? AND type = ?", taskID, notifType).
		Count(&count).Error
	return count > 0, err
}

// --- notification preferences ---

type gormPreferenceRepo struct {
	db *gorm.DB
}

func (r *gormPreferenceRepo) Get(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Defaults apply until the user saves preferences.
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
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *gormPreferenceRepo) Upsert(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	var existing models.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", pref.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(pref).Error; err != nil {
			return nil, err
		}
		return pref, nil
	}
	if err != nil {
		return nil, err
	}
	pref.ID = existing.ID
	if err := r.db.WithContext(ctx).Save(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}

// --- comments ---

type gormCommentRepo struct {
	db *gorm.DB
}

func (r *gormCommentRepo) ListByTask(ctx context.Context, taskID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *gormCommentRepo) Get(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *gormCommentRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *gormCommentRepo) Update(ctx context.Context, id uint, body string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	comment.Body = body
	if err := r.db.WithContext(ctx).Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *gormCommentRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
