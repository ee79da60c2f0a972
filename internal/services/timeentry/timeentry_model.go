package timeentry

import (
	"time"

	"github.com/google/uuid"
)

// ProjectEntryLimit caps the per-project history listing
const ProjectEntryLimit = 50

type TimeEntry struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	ProjectID       uuid.UUID  `json:"project_id" db:"project_id"`
	TaskID          *uuid.UUID `json:"task_id" db:"task_id"`
	Description     *string    `json:"description" db:"description"`
	StartTime       time.Time  `json:"start_time" db:"start_time"`
	EndTime         *time.Time `json:"end_time" db:"end_time"`
	DurationSeconds *int64     `json:"duration_seconds" db:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// TimeEntryDetail is an entry joined with its project and task names
type TimeEntryDetail struct {
	TimeEntry
	ProjectName  *string `json:"project_name" db:"project_name"`
	ProjectColor *string `json:"project_color" db:"project_color"`
	TaskName     *string `json:"task_name" db:"task_name"`
}

type CreateTimeEntryRequest struct {
	UserID          uuid.UUID  `json:"-"`
	ProjectID       uuid.UUID  `json:"project_id"`
	TaskID          *uuid.UUID `json:"task_id,omitempty"`
	Description     *string    `json:"description,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
}
