package task

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/curaious/ticktrack/internal/services/project"
)

var (
	ErrTaskForbidden    = errors.New("task belongs to another user")
	ErrTaskNameRequired = errors.New("task name is required")
)

// Repository is the persistence contract of TaskService.
type Repository interface {
	Create(ctx context.Context, req *CreateTaskRequest) (*Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TaskDetail, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*TaskDetail, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateTaskRequest) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, projectID uuid.UUID) (*Stats, error)
}

// ProjectAccess resolves a project the caller owns.
type ProjectAccess interface {
	GetOwned(ctx context.Context, userID, id uuid.UUID) (*project.Project, error)
}

type TaskService struct {
	repo     Repository
	projects ProjectAccess
}

func NewTaskService(repo Repository, projects ProjectAccess) *TaskService {
	return &TaskService{repo: repo, projects: projects}
}

// Create adds a task under a project owned by userID.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req *CreateTaskRequest) (*Task, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrTaskNameRequired
	}

	if _, err := s.projects.GetOwned(ctx, userID, req.ProjectID); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, req)
}

// ListForProject lists the tasks of an owned project.
func (s *TaskService) ListForProject(ctx context.Context, userID, projectID uuid.UUID) ([]*Task, error) {
	if _, err := s.projects.GetOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	return s.repo.ListByProject(ctx, projectID)
}

func (s *TaskService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*TaskDetail, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetOwned fetches a task and checks its project belongs to userID. Existence is checked first.
func (s *TaskService) GetOwned(ctx context.Context, userID, id uuid.UUID) (*TaskDetail, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.OwnerID != userID {
		return nil, ErrTaskForbidden
	}

	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateTaskRequest) (*Task, error) {
	existing, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrTaskNameRequired
		}
		req.Name = &name
	}

	if req.empty() {
		return &existing.Task, nil
	}

	return s.repo.Update(ctx, id, req)
}

// Delete hard deletes an owned task.
func (s *TaskService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context, userID, projectID uuid.UUID) (*Stats, error) {
	if _, err := s.projects.GetOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	return s.repo.Stats(ctx, projectID)
}
