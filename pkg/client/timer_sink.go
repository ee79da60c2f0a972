package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/curaious/ticktrack/internal/services/timeentry"
	"github.com/curaious/ticktrack/internal/timer"
)

// TimerSink persists reconciled timer sessions through POST /time-entries.
type TimerSink struct {
	client *Client
}

func NewTimerSink(c *Client) *TimerSink {
	return &TimerSink{client: c}
}

func (s *TimerSink) CreateTimeEntry(ctx context.Context, entry timer.Entry) error {
	projectID, err := uuid.Parse(entry.ProjectID)
	if err != nil {
		return fmt.Errorf("invalid project id %q: %w", entry.ProjectID, err)
	}

	req := &timeentry.CreateTimeEntryRequest{
		ProjectID:       projectID,
		Description:     entry.Description,
		StartTime:       entry.StartTime,
		EndTime:         &entry.EndTime,
		DurationSeconds: &entry.DurationSeconds,
	}

	if entry.TaskID != nil {
		taskID, err := uuid.Parse(*entry.TaskID)
		if err != nil {
			return fmt.Errorf("invalid task id %q: %w", *entry.TaskID, err)
		}
		req.TaskID = &taskID
	}

	_, err = s.client.CreateTimeEntry(ctx, req)
	return err
}
