package project

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrProjectForbidden    = errors.New("project belongs to another user")
	ErrProjectNameRequired = errors.New("project name is required")
	ErrInvalidColor        = errors.New("color must be a hex string like #F4D03F")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Repository is the persistence contract of ProjectService.
type Repository interface {
	Create(ctx context.Context, req *CreateProjectRequest) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*ProjectSummary, error)
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]*ProjectSummary, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*Project, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ProjectService contains business logic for projects
type ProjectService struct {
	repo Repository
}

// NewProjectService constructs a new ProjectService
func NewProjectService(repo Repository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create registers a new project for req.UserID
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrProjectNameRequired
	}

	if req.Color != nil && !hexColor.MatchString(*req.Color) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, *req.Color)
	}

	return s.repo.Create(ctx, req)
}

// ListForUser returns the caller's active projects with time totals
func (s *ProjectService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*ProjectSummary, error) {
	return s.repo.ListSummaries(ctx, userID)
}

// GetOwned fetches a project and checks it belongs to userID. Existence is checked first.
func (s *ProjectService) GetOwned(ctx context.Context, userID, id uuid.UUID) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.UserID != userID {
		return nil, ErrProjectForbidden
	}

	return project, nil
}

// GetOwnedSummary is GetOwned plus the project's time totals
func (s *ProjectService) GetOwnedSummary(ctx context.Context, userID, id uuid.UUID) (*ProjectSummary, error) {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	return s.repo.GetSummary(ctx, id)
}

// Update modifies mutable project fields of an owned project
func (s *ProjectService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	existing, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		req.Name = &name
	}

	if req.Color != nil && !hexColor.MatchString(*req.Color) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, *req.Color)
	}

	if req.empty() {
		return existing, nil
	}

	return s.repo.Update(ctx, id, req)
}

// Delete soft deletes an owned project
func (s *ProjectService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.Deactivate(ctx, id)
}
