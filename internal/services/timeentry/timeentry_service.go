package timeentry

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/curaious/ticktrack/internal/services/project"
	"github.com/curaious/ticktrack/internal/services/task"
)

var (
	ErrProjectRequired  = errors.New("project_id and start_time are required")
	ErrInvalidInterval  = errors.New("end_time must not be before start_time")
	ErrNegativeDuration = errors.New("duration_seconds must not be negative")
	ErrTaskNotInProject = errors.New("task does not belong to project")
)

type Repository interface {
	Create(ctx context.Context, req *CreateTimeEntryRequest) (*TimeEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*TimeEntryDetail, error)
	ListByProject(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]*TimeEntry, error)
}

type ProjectAccess interface {
	GetOwned(ctx context.Context, userID, id uuid.UUID) (*project.Project, error)
}

type TaskAccess interface {
	GetOwned(ctx context.Context, userID, id uuid.UUID) (*task.TaskDetail, error)
}

type TimeEntryService struct {
	repo     Repository
	projects ProjectAccess
	tasks    TaskAccess
}

func NewTimeEntryService(repo Repository, projects ProjectAccess, tasks TaskAccess) *TimeEntryService {
	return &TimeEntryService{repo: repo, projects: projects, tasks: tasks}
}

// Create records an entry for req.UserID after checking the project, and the task if any, are owned.
func (s *TimeEntryService) Create(ctx context.Context, req *CreateTimeEntryRequest) (*TimeEntry, error) {
	if req.ProjectID == uuid.Nil || req.StartTime.IsZero() {
		return nil, ErrProjectRequired
	}

	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return nil, ErrInvalidInterval
	}

	if req.DurationSeconds != nil && *req.DurationSeconds < 0 {
		return nil, ErrNegativeDuration
	}

	if _, err := s.projects.GetOwned(ctx, req.UserID, req.ProjectID); err != nil {
		return nil, err
	}

	if req.TaskID != nil {
		t, err := s.tasks.GetOwned(ctx, req.UserID, *req.TaskID)
		if err != nil {
			return nil, err
		}
		if t.ProjectID != req.ProjectID {
			return nil, ErrTaskNotInProject
		}
	}

	return s.repo.Create(ctx, req)
}

func (s *TimeEntryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*TimeEntryDetail, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListForProject returns the latest entries of a project. Projects the caller does not own yield none.
func (s *TimeEntryService) ListForProject(ctx context.Context, userID, projectID uuid.UUID) ([]*TimeEntry, error) {
	return s.repo.ListByProject(ctx, userID, projectID, ProjectEntryLimit)
}
