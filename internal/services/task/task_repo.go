package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `id, project_id, name, description, is_completed, created_at, updated_at`

const detailSelect = `
        SELECT t.id, t.project_id, t.name, t.description, t.is_completed, t.created_at, t.updated_at,
               p.name AS project_name, p.color AS project_color, p.user_id AS owner_id
        FROM tasks t
        JOIN projects p ON p.id = t.project_id
`

type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, req *CreateTaskRequest) (*Task, error) {
	query := `
        INSERT INTO tasks (project_id, name, description)
        VALUES ($1, $2, $3)
        RETURNING ` + taskColumns

	var task Task
	if err := r.db.GetContext(ctx, &task, query, req.ProjectID, req.Name, req.Description); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// GetByID returns the task joined with its project so callers can walk the owner chain.
func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*TaskDetail, error) {
	query := detailSelect + ` WHERE t.id = $1`

	var task TaskDetail
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY created_at DESC`

	tasks := []*Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListByUser returns every task under any project owned by userID, active or not.
func (r *TaskRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*TaskDetail, error) {
	query := detailSelect + ` WHERE p.user_id = $1 ORDER BY t.created_at DESC`

	tasks := []*TaskDetail{}
	if err := r.db.SelectContext(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the patch with a fixed statement; NULL parameters keep the stored value and
// $5 clears the description.
func (r *TaskRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateTaskRequest) (*Task, error) {
	query := `
        UPDATE tasks
        SET name = COALESCE($2, name),
            description = CASE WHEN $5 THEN NULL ELSE COALESCE($3, description) END,
            is_completed = COALESCE($4, is_completed),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + taskColumns

	var task Task
	err := r.db.GetContext(ctx, &task, query, id, req.Name, req.Description, req.IsCompleted, req.ClearDescription)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &task, nil
}

// Delete removes the row. Time entries referencing it keep their data with task_id set to NULL.
func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) Stats(ctx context.Context, projectID uuid.UUID) (*Stats, error) {
	query := `
        SELECT
            COUNT(*) AS total,
            COUNT(*) FILTER (WHERE is_completed) AS completed,
            COUNT(*) FILTER (WHERE NOT is_completed) AS pending
        FROM tasks
        WHERE project_id = $1
    `

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to get task stats: %w", err)
	}
	return &stats, nil
}
