package timer

import (
	"errors"
	"fmt"
	"time"
)

// NoTask is the task selection meaning "none". It is persisted as a null task reference.
const NoTask = "no-task"

var (
	ErrNoProject         = errors.New("a project must be selected")
	ErrInvalidTransition = errors.New("invalid timer transition")
)

type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Stopped
	// Saving is a stopped session whose entry is being written; every transition is refused until it settles
	Saving
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Saving:
		return "saving"
	default:
		return "idle"
	}
}

// Session is a snapshot of the shared timer. ElapsedSeconds is authoritative, StartedAt is informational.
type Session struct {
	Phase          Phase     `json:"phase"`
	IsRunning      bool      `json:"is_running"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	ProjectID      string    `json:"project_id"`
	TaskID         string    `json:"task_id"`
	Description    string    `json:"description"`
	StartedAt      time.Time `json:"started_at"`
}

func idleSession() Session {
	return Session{Phase: Idle, TaskID: NoTask}
}

// Elapsed formats the counter as HH:MM:SS.
func (s Session) Elapsed() string {
	return fmt.Sprintf("%02d:%02d:%02d", s.ElapsedSeconds/3600, (s.ElapsedSeconds%3600)/60, s.ElapsedSeconds%60)
}
