package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrProjectNotFound = errors.New("project not found")

const projectColumns = `id, user_id, name, description, color, is_active, created_at, updated_at`

// Only finished entries contribute duration; every entry counts.
const summarySelect = `
        SELECT
            p.id, p.user_id, p.name, p.description, p.color, p.is_active, p.created_at, p.updated_at,
            COALESCE(SUM(CASE WHEN te.end_time IS NOT NULL THEN te.duration_seconds ELSE 0 END), 0)::BIGINT AS total_time_seconds,
            COUNT(te.id) AS total_entries
        FROM projects p
        LEFT JOIN time_entries te ON te.project_id = p.id
`

// ProjectRepo handles database operations for projects
type ProjectRepo struct {
	db *sqlx.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create creates a new project
func (r *ProjectRepo) Create(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	query := `
        INSERT INTO projects (user_id, name, description, color)
        VALUES ($1, $2, $3, COALESCE($4, '` + DefaultColor + `'))
        RETURNING ` + projectColumns

	var project Project
	err := r.db.GetContext(ctx, &project, query, req.UserID, req.Name, req.Description, req.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &project, nil
}

// GetByID retrieves a project by ID regardless of its active flag
func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var project Project
	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// GetSummary retrieves a project with its time totals
func (r *ProjectRepo) GetSummary(ctx context.Context, id uuid.UUID) (*ProjectSummary, error) {
	query := summarySelect + `
        WHERE p.id = $1
        GROUP BY p.id
    `

	var summary ProjectSummary
	err := r.db.GetContext(ctx, &summary, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project summary: %w", err)
	}

	return &summary, nil
}

// ListSummaries retrieves the active projects of a user with their time totals, newest first
func (r *ProjectRepo) ListSummaries(ctx context.Context, userID uuid.UUID) ([]*ProjectSummary, error) {
	query := summarySelect + `
        WHERE p.user_id = $1 AND p.is_active = TRUE
        GROUP BY p.id
        ORDER BY p.created_at DESC
    `

	projects := []*ProjectSummary{}
	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// Update applies the patch with a fixed statement; NULL parameters keep the stored value and
// $6 clears the description.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	query := `
        UPDATE projects
        SET name = COALESCE($2, name),
            description = CASE WHEN $6 THEN NULL ELSE COALESCE($3, description) END,
            color = COALESCE($4, color),
            is_active = COALESCE($5, is_active),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + projectColumns

	var project Project
	err := r.db.GetContext(ctx, &project, query, id, req.Name, req.Description, req.Color, req.IsActive, req.ClearDescription)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return &project, nil
}

// Deactivate soft deletes a project; its tasks and time entries stay addressable
func (r *ProjectRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE projects SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}
