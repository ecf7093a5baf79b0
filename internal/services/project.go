package services

import (
	"context"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/pkg/logger"
)

type ProjectService struct {
	projects repository.ProjectRepository
	columns  repository.ColumnRepository
	tasks    repository.TaskRepository
}

func NewProjectService(projects repository.ProjectRepository, columns repository.ColumnRepository, tasks repository.TaskRepository) *ProjectService {
	return &ProjectService{projects: projects, columns: columns, tasks: tasks}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive completed archived"`
	CreatedBy   uint   `json:"created_by"`
	MemberIDs   []uint `json:"member_ids"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive completed archived"`
}

// StatusCounts is the number of projects per lifecycle status.
type StatusCounts struct {
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Completed int `json:"completed"`
	Archived  int `json:"archived"`
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

// Create creates a project together with its default board columns. The
// creator always ends up in the member set.
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		CreatedBy:   req.CreatedBy,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	memberIDs := req.MemberIDs
	if req.CreatedBy != 0 {
		found := false
		for _, id := range memberIDs {
			if id == req.CreatedBy {
				found = true
				break
			}
		}
		if !found {
			memberIDs = append(memberIDs, req.CreatedBy)
		}
	}
	for _, userID := range memberIDs {
		if err := s.projects.AddMember(ctx, created.ID, userID); err != nil {
			logger.Warnf("[Project] Failed to add member %d to project %d: %v", userID, created.ID, err)
		}
	}

	for _, col := range models.DefaultColumns(created.ID) {
		c := col
		if _, err := s.columns.Create(ctx, &c); err != nil {
			return nil, err
		}
	}

	return s.projects.Get(ctx, created.ID)
}

func (s *ProjectService) Update(ctx context.Context, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	return s.projects.Update(ctx, id, repository.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
}

// Delete removes a project along with its columns and tasks.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	cols, err := s.columns.ListByProject(ctx, id)
	if err != nil {
		return err
	}
	tasks, err := s.tasks.ListByProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	for _, t := range tasks {
		if err := s.tasks.Delete(ctx, t.ID); err != nil {
			logger.Warnf("[Project] Failed to delete task %d of project %d: %v", t.ID, id, err)
		}
	}
	for _, c := range cols {
		if err := s.columns.Delete(ctx, c.ID); err != nil {
			logger.Warnf("[Project] Failed to delete column %d of project %d: %v", c.ID, id, err)
		}
	}
	return nil
}

func (s *ProjectService) AddMember(ctx context.Context, projectID, userID uint) error {
	return s.projects.AddMember(ctx, projectID, userID)
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID uint) error {
	return s.projects.RemoveMember(ctx, projectID, userID)
}

// CountByStatus tallies projects per lifecycle status from a fresh listing.
func (s *ProjectService) CountByStatus(ctx context.Context) (*StatusCounts, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := &StatusCounts{}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectStatusActive:
			counts.Active++
		case models.ProjectStatusInactive:
			counts.Inactive++
		case models.ProjectStatusCompleted:
			counts.Completed++
		case models.ProjectStatusArchived:
			counts.Archived++
		}
	}
	return counts, nil
}
