package project

import (
	"time"

	"github.com/google/uuid"
)

const DefaultColor = "#F4D03F"

// Project groups tasks and time entries for a single owner
type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectSummary is a project with aggregates computed from its time entries on read
type ProjectSummary struct {
	Project
	TotalTimeSeconds int64 `json:"total_time_seconds" db:"total_time_seconds"`
	TotalEntries     int64 `json:"total_entries" db:"total_entries"`
}

// CreateProjectRequest captures payload for creating a project
type CreateProjectRequest struct {
	UserID      uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
}

// UpdateProjectRequest is a patch; nil fields are left untouched.
// ClearDescription is set when the payload carries an explicit "description": null.
type UpdateProjectRequest struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	Color            *string `json:"color,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
	ClearDescription bool    `json:"-"`
}

func (r *UpdateProjectRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.Color == nil && r.IsActive == nil && !r.ClearDescription
}
