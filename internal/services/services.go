package services

import (
	"context"

	"github.com/jmoiron/sqlx"

	project2 "github.com/curaious/ticktrack/internal/services/project"
	task2 "github.com/curaious/ticktrack/internal/services/task"
	timeentry2 "github.com/curaious/ticktrack/internal/services/timeentry"
	user2 "github.com/curaious/ticktrack/internal/services/user"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

type Services struct {
	User      *user2.UserService
	Project   *project2.ProjectService
	Task      *task2.TaskService
	TimeEntry *timeentry2.TimeEntryService
	Health    HealthChecker
}

// NewServices wires the postgres repositories into their services.
func NewServices(dbconn *sqlx.DB) *Services {
	return New(
		user2.NewUserRepo(dbconn),
		project2.NewProjectRepo(dbconn),
		task2.NewTaskRepo(dbconn),
		timeentry2.NewTimeEntryRepo(dbconn),
		dbconn,
	)
}

// New wires services over arbitrary repositories.
func New(users user2.Repository, projects project2.Repository, tasks task2.Repository, entries timeentry2.Repository, health HealthChecker) *Services {
	projectSvc := project2.NewProjectService(projects)
	taskSvc := task2.NewTaskService(tasks, projectSvc)

	return &Services{
		User:      user2.NewUserService(users),
		Project:   projectSvc,
		Task:      taskSvc,
		TimeEntry: timeentry2.NewTimeEntryService(entries, projectSvc, taskSvc),
		Health:    health,
	}
}
