package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProjectID   uuid.UUID `json:"project_id" db:"project_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TaskDetail is a task joined with its project. OwnerID is the project's user.
type TaskDetail struct {
	Task
	ProjectName  string    `json:"project_name" db:"project_name"`
	ProjectColor string    `json:"project_color" db:"project_color"`
	OwnerID      uuid.UUID `json:"-" db:"owner_id"`
}

type Stats struct {
	Total     int64 `json:"total" db:"total"`
	Completed int64 `json:"completed" db:"completed"`
	Pending   int64 `json:"pending" db:"pending"`
}

type CreateTaskRequest struct {
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// UpdateTaskRequest is a patch; nil fields are left untouched.
// ClearDescription is set when the payload carries an explicit "description": null.
type UpdateTaskRequest struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	IsCompleted      *bool   `json:"is_completed,omitempty"`
	ClearDescription bool    `json:"-"`
}

func (r *UpdateTaskRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.IsCompleted == nil && !r.ClearDescription
}
