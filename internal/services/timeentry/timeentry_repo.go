package timeentry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const entryColumns = `id, user_id, project_id, task_id, description, start_time, end_time, duration_seconds, created_at`

type TimeEntryRepo struct {
	db *sqlx.DB
}

func NewTimeEntryRepo(db *sqlx.DB) *TimeEntryRepo {
	return &TimeEntryRepo{db: db}
}

func (r *TimeEntryRepo) Create(ctx context.Context, req *CreateTimeEntryRequest) (*TimeEntry, error) {
	query := `
        INSERT INTO time_entries (user_id, project_id, task_id, description, start_time, end_time, duration_seconds)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + entryColumns

	var entry TimeEntry
	err := r.db.GetContext(ctx, &entry, query,
		req.UserID, req.ProjectID, req.TaskID, req.Description, req.StartTime, req.EndTime, req.DurationSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}
	return &entry, nil
}

// ListByUser returns all of the user's entries, newest first.
func (r *TimeEntryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*TimeEntryDetail, error) {
	query := `
        SELECT te.id, te.user_id, te.project_id, te.task_id, te.description, te.start_time, te.end_time,
               te.duration_seconds, te.created_at,
               p.name AS project_name, p.color AS project_color, t.name AS task_name
        FROM time_entries te
        LEFT JOIN projects p ON p.id = te.project_id
        LEFT JOIN tasks t ON t.id = te.task_id
        WHERE te.user_id = $1
        ORDER BY te.start_time DESC
    `

	entries := []*TimeEntryDetail{}
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return entries, nil
}

// ListByProject returns the latest entries of a project, filtered to projects owned by userID.
func (r *TimeEntryRepo) ListByProject(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]*TimeEntry, error) {
	query := `
        SELECT te.id, te.user_id, te.project_id, te.task_id, te.description, te.start_time, te.end_time,
               te.duration_seconds, te.created_at
        FROM time_entries te
        JOIN projects p ON p.id = te.project_id
        WHERE te.project_id = $1 AND p.user_id = $2
        ORDER BY te.start_time DESC
        LIMIT $3
    `

	entries := []*TimeEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, projectID, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list project time entries: %w", err)
	}
	return entries, nil
}
