package timer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Entry is the time entry produced by reconciling a stopped session.
type Entry struct {
	ProjectID       string
	TaskID          *string
	Description     *string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int64
}

// EntrySink persists reconciled entries.
type EntrySink interface {
	CreateTimeEntry(ctx context.Context, entry Entry) error
}

// Reconcile stops the session if needed and persists it through sink. While the sink runs the
// session is Saving, so a concurrent Reconcile cannot write the same entry twice. The session is
// reset only after the sink succeeds; on failure it returns to Stopped so the caller can retry.
func (s *Store) Reconcile(ctx context.Context, sink EntrySink) (*Entry, error) {
	s.mu.Lock()
	if s.session.Phase == Running || s.session.Phase == Paused {
		_ = s.stopLocked()
	}
	if s.session.Phase != Stopped {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if s.session.ProjectID == "" {
		s.mu.Unlock()
		return nil, ErrNoProject
	}

	entry := entryFor(s.session, s.now())
	s.setPhaseLocked(Saving)
	u := s.changedLocked()
	s.mu.Unlock()
	s.publish(u)

	err := sink.CreateTimeEntry(ctx, entry)

	s.mu.Lock()
	if err != nil {
		s.setPhaseLocked(Stopped)
	} else {
		s.session = idleSession()
	}
	u = s.changedLocked()
	s.mu.Unlock()
	s.publish(u)

	if err != nil {
		slog.ErrorContext(ctx, "failed to save time entry, timer kept for retry",
			slog.String("project_id", entry.ProjectID),
			slog.Int64("duration_seconds", entry.DurationSeconds),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to save time entry: %w", err)
	}

	return &entry, nil
}

// entryFor derives start from the counter so end-start always equals the recorded duration.
func entryFor(session Session, now time.Time) Entry {
	end := now.UTC().Truncate(time.Second)

	entry := Entry{
		ProjectID:       session.ProjectID,
		StartTime:       end.Add(-time.Duration(session.ElapsedSeconds) * time.Second),
		EndTime:         end,
		DurationSeconds: session.ElapsedSeconds,
	}

	if session.TaskID != "" && session.TaskID != NoTask {
		taskID := session.TaskID
		entry.TaskID = &taskID
	}

	if session.Description != "" {
		description := session.Description
		entry.Description = &description
	}

	return entry
}
