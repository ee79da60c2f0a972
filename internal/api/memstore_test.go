package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/curaious/ticktrack/internal/services"
	"github.com/curaious/ticktrack/internal/services/project"
	"github.com/curaious/ticktrack/internal/services/task"
	"github.com/curaious/ticktrack/internal/services/timeentry"
	"github.com/curaious/ticktrack/internal/services/user"
)

// memDB mimics the postgres schema closely enough for handler tests: cascades, soft deletes
// and totals computed on read.
type memDB struct {
	mu       sync.Mutex
	clock    time.Time
	users    []*user.User
	projects []*project.Project
	tasks    []*task.Task
	entries  []*timeentry.TimeEntry
}

func newMemServices() *services.Services {
	db := &memDB{clock: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)}
	return services.New(memUsers{db}, memProjects{db}, memTasks{db}, memEntries{db}, pinger{})
}

func (db *memDB) now() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) project(id uuid.UUID) *project.Project {
	for _, p := range db.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (db *memDB) task(id uuid.UUID) *task.Task {
	for _, t := range db.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

type pinger struct{}

func (pinger) PingContext(context.Context) error { return nil }

type memUsers struct{ db *memDB }

func (r memUsers) Upsert(_ context.Context, req *user.CreateUserRequest) (*user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.FirebaseUID == req.FirebaseUID {
			u.Email = req.Email
			u.DisplayName = req.DisplayName
			u.AvatarURL = req.AvatarURL
			u.UpdatedAt = r.db.now()
			cp := *u
			return &cp, nil
		}
	}

	now := r.db.now()
	u := &user.User{
		ID:          uuid.New(),
		FirebaseUID: req.FirebaseUID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Timezone:    user.DefaultTimezone,
		TimeFormat:  user.DefaultTimeFormat,
		Theme:       user.DefaultTheme,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.users = append(r.db.users, u)
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByFirebaseUID(_ context.Context, uid string) (*user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r memUsers) Update(_ context.Context, id uuid.UUID, req *user.UpdateUserRequest) (*user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID != id {
			continue
		}
		if req.DisplayName != nil {
			u.DisplayName = req.DisplayName
		}
		if req.AvatarURL != nil {
			u.AvatarURL = req.AvatarURL
		}
		if req.Timezone != nil {
			u.Timezone = *req.Timezone
		}
		if req.TimeFormat != nil {
			u.TimeFormat = *req.TimeFormat
		}
		if req.Theme != nil {
			u.Theme = *req.Theme
		}
		u.UpdatedAt = r.db.now()
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrUserNotFound
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	found := false
	users := r.db.users[:0]
	for _, u := range r.db.users {
		if u.ID == id {
			found = true
			continue
		}
		users = append(users, u)
	}
	if !found {
		return user.ErrUserNotFound
	}
	r.db.users = users

	owned := map[uuid.UUID]bool{}
	projects := r.db.projects[:0]
	for _, p := range r.db.projects {
		if p.UserID == id {
			owned[p.ID] = true
			continue
		}
		projects = append(projects, p)
	}
	r.db.projects = projects

	tasks := r.db.tasks[:0]
	for _, t := range r.db.tasks {
		if !owned[t.ProjectID] {
			tasks = append(tasks, t)
		}
	}
	r.db.tasks = tasks

	entries := r.db.entries[:0]
	for _, e := range r.db.entries {
		if e.UserID != id {
			entries = append(entries, e)
		}
	}
	r.db.entries = entries
	return nil
}

type memProjects struct{ db *memDB }

func (r memProjects) Create(_ context.Context, req *project.CreateProjectRequest) (*project.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	color := project.DefaultColor
	if req.Color != nil {
		color = *req.Color
	}
	now := r.db.now()
	p := &project.Project{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		Color:       color,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.projects = append(r.db.projects, p)
	cp := *p
	return &cp, nil
}

func (r memProjects) GetByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.db.project(id)
	if p == nil {
		return nil, project.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProjects) summary(p *project.Project) *project.ProjectSummary {
	s := &project.ProjectSummary{Project: *p}
	for _, e := range r.db.entries {
		if e.ProjectID != p.ID {
			continue
		}
		s.TotalEntries++
		if e.EndTime != nil && e.DurationSeconds != nil {
			s.TotalTimeSeconds += *e.DurationSeconds
		}
	}
	return s
}

func (r memProjects) GetSummary(_ context.Context, id uuid.UUID) (*project.ProjectSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.db.project(id)
	if p == nil {
		return nil, project.ErrProjectNotFound
	}
	return r.summary(p), nil
}

func (r memProjects) ListSummaries(_ context.Context, userID uuid.UUID) ([]*project.ProjectSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*project.ProjectSummary{}
	for i := len(r.db.projects) - 1; i >= 0; i-- {
		p := r.db.projects[i]
		if p.UserID == userID && p.IsActive {
			out = append(out, r.summary(p))
		}
	}
	return out, nil
}

func (r memProjects) Update(_ context.Context, id uuid.UUID, req *project.UpdateProjectRequest) (*project.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.db.project(id)
	if p == nil {
		return nil, project.ErrProjectNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.ClearDescription {
		p.Description = nil
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = r.db.now()
	cp := *p
	return &cp, nil
}

func (r memProjects) Deactivate(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.db.project(id)
	if p == nil {
		return project.ErrProjectNotFound
	}
	p.IsActive = false
	p.UpdatedAt = r.db.now()
	return nil
}

type memTasks struct{ db *memDB }

func (r memTasks) detail(t *task.Task) *task.TaskDetail {
	d := &task.TaskDetail{Task: *t}
	if p := r.db.project(t.ProjectID); p != nil {
		d.ProjectName = p.Name
		d.ProjectColor = p.Color
		d.OwnerID = p.UserID
	}
	return d
}

func (r memTasks) Create(_ context.Context, req *task.CreateTaskRequest) (*task.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := r.db.now()
	t := &task.Task{
		ID:          uuid.New(),
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.tasks = append(r.db.tasks, t)
	cp := *t
	return &cp, nil
}

func (r memTasks) GetByID(_ context.Context, id uuid.UUID) (*task.TaskDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t := r.db.task(id)
	if t == nil {
		return nil, task.ErrTaskNotFound
	}
	return r.detail(t), nil
}

func (r memTasks) ListByProject(_ context.Context, projectID uuid.UUID) ([]*task.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*task.Task{}
	for i := len(r.db.tasks) - 1; i >= 0; i-- {
		if t := r.db.tasks[i]; t.ProjectID == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memTasks) ListByUser(_ context.Context, userID uuid.UUID) ([]*task.TaskDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*task.TaskDetail{}
	for i := len(r.db.tasks) - 1; i >= 0; i-- {
		if d := r.detail(r.db.tasks[i]); d.OwnerID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r memTasks) Update(_ context.Context, id uuid.UUID, req *task.UpdateTaskRequest) (*task.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t := r.db.task(id)
	if t == nil {
		return nil, task.ErrTaskNotFound
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.ClearDescription {
		t.Description = nil
	}
	if req.IsCompleted != nil {
		t.IsCompleted = *req.IsCompleted
	}
	t.UpdatedAt = r.db.now()
	cp := *t
	return &cp, nil
}

func (r memTasks) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, t := range r.db.tasks {
		if t.ID != id {
			continue
		}
		r.db.tasks = append(r.db.tasks[:i], r.db.tasks[i+1:]...)
		// ON DELETE SET NULL
		for _, e := range r.db.entries {
			if e.TaskID != nil && *e.TaskID == id {
				e.TaskID = nil
			}
		}
		return nil
	}
	return task.ErrTaskNotFound
}

func (r memTasks) Stats(_ context.Context, projectID uuid.UUID) (*task.Stats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stats := &task.Stats{}
	for _, t := range r.db.tasks {
		if t.ProjectID != projectID {
			continue
		}
		stats.Total++
		if t.IsCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

type memEntries struct{ db *memDB }

func (r memEntries) Create(_ context.Context, req *timeentry.CreateTimeEntryRequest) (*timeentry.TimeEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e := &timeentry.TimeEntry{
		ID:              uuid.New(),
		UserID:          req.UserID,
		ProjectID:       req.ProjectID,
		TaskID:          req.TaskID,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationSeconds: req.DurationSeconds,
		CreatedAt:       r.db.now(),
	}
	r.db.entries = append(r.db.entries, e)
	cp := *e
	return &cp, nil
}

func (r memEntries) ListByUser(_ context.Context, userID uuid.UUID) ([]*timeentry.TimeEntryDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*timeentry.TimeEntryDetail{}
	for _, e := range r.db.entries {
		if e.UserID != userID {
			continue
		}
		d := &timeentry.TimeEntryDetail{TimeEntry: *e}
		if p := r.db.project(e.ProjectID); p != nil {
			d.ProjectName = &p.Name
			d.ProjectColor = &p.Color
		}
		if e.TaskID != nil {
			if t := r.db.task(*e.TaskID); t != nil {
				d.TaskName = &t.Name
			}
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (r memEntries) ListByProject(_ context.Context, userID, projectID uuid.UUID, limit int) ([]*timeentry.TimeEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*timeentry.TimeEntry{}
	p := r.db.project(projectID)
	if p == nil || p.UserID != userID {
		return out, nil
	}
	for _, e := range r.db.entries {
		if e.ProjectID == projectID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
