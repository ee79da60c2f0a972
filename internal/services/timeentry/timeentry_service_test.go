package timeentry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curaious/ticktrack/internal/services/project"
	"github.com/curaious/ticktrack/internal/services/task"
)

type fakeProjects map[uuid.UUID]*project.Project

func (f fakeProjects) GetOwned(_ context.Context, userID, id uuid.UUID) (*project.Project, error) {
	p, ok := f[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	if p.UserID != userID {
		return nil, project.ErrProjectForbidden
	}
	return p, nil
}

type fakeTasks map[uuid.UUID]*task.TaskDetail

func (f fakeTasks) GetOwned(_ context.Context, userID, id uuid.UUID) (*task.TaskDetail, error) {
	t, ok := f[id]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	if t.OwnerID != userID {
		return nil, task.ErrTaskForbidden
	}
	return t, nil
}

type fakeRepo struct {
	created []*CreateTimeEntryRequest
}

func (f *fakeRepo) Create(_ context.Context, req *CreateTimeEntryRequest) (*TimeEntry, error) {
	f.created = append(f.created, req)
	return &TimeEntry{ID: uuid.New(), UserID: req.UserID, ProjectID: req.ProjectID, TaskID: req.TaskID,
		StartTime: req.StartTime, EndTime: req.EndTime, DurationSeconds: req.DurationSeconds}, nil
}

func (f *fakeRepo) ListByUser(context.Context, uuid.UUID) ([]*TimeEntryDetail, error) {
	return []*TimeEntryDetail{}, nil
}

func (f *fakeRepo) ListByProject(_ context.Context, _, _ uuid.UUID, limit int) ([]*TimeEntry, error) {
	if limit != ProjectEntryLimit {
		return nil, assert.AnError
	}
	return []*TimeEntry{}, nil
}

func TestCreateEnforcesOwnership(t *testing.T) {
	owner, other := uuid.New(), uuid.New()
	p := &project.Project{ID: uuid.New(), UserID: owner}
	otherProject := &project.Project{ID: uuid.New(), UserID: owner}
	tk := &task.TaskDetail{Task: task.Task{ID: uuid.New(), ProjectID: otherProject.ID}, OwnerID: owner}

	repo := &fakeRepo{}
	svc := NewTimeEntryService(repo, fakeProjects{p.ID: p, otherProject.ID: otherProject}, fakeTasks{tk.ID: tk})
	ctx := context.Background()
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, &CreateTimeEntryRequest{UserID: owner, StartTime: start})
	assert.ErrorIs(t, err, ErrProjectRequired)

	_, err = svc.Create(ctx, &CreateTimeEntryRequest{UserID: owner, ProjectID: p.ID})
	assert.ErrorIs(t, err, ErrProjectRequired)

	_, err = svc.Create(ctx, &CreateTimeEntryRequest{UserID: owner, ProjectID: uuid.New(), StartTime: start})
	assert.ErrorIs(t, err, project.ErrProjectNotFound)

	_, err = svc.Create(ctx, &CreateTimeEntryRequest{UserID: other, ProjectID: p.ID, StartTime: start})
	assert.ErrorIs(t, err, project.ErrProjectForbidden)

	_, err = svc.Create(ctx, &CreateTimeEntryRequest{UserID: owner, ProjectID: p.ID, TaskID: &tk.ID, StartTime: start})
	assert.ErrorIs(t, err, ErrTaskNotInProject)

	assert.Empty(t, repo.created)
}

func TestCreateValidatesInterval(t *testing.T) {
	owner := uuid.New()
	p := &project.Project{ID: uuid.New(), UserID: owner}
	repo := &fakeRepo{}
	svc := NewTimeEntryService(repo, fakeProjects{p.ID: p}, fakeTasks{})
	ctx := context.Background()

	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	before := start.Add(-time.Second)
	negative := int64(-1)

	_, err := svc.Create(ctx, &CreateTimeEntryRequest{UserID: owner, ProjectID: p.ID, StartTime: start, EndTime: &before})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = svc.Create(ctx, &CreateTimeEntryRequest{UserID: owner, ProjectID: p.ID, StartTime: start, DurationSeconds: &negative})
	assert.ErrorIs(t, err, ErrNegativeDuration)

	end := start.Add(5 * time.Second)
	duration := int64(5)
	entry, err := svc.Create(ctx, &CreateTimeEntryRequest{UserID: owner, ProjectID: p.ID, StartTime: start, EndTime: &end, DurationSeconds: &duration})
	require.NoError(t, err)
	assert.Equal(t, int64(5), *entry.DurationSeconds)
	assert.Nil(t, entry.TaskID)
}

func TestListForProjectUsesLimit(t *testing.T) {
	svc := NewTimeEntryService(&fakeRepo{}, fakeProjects{}, fakeTasks{})
	entries, err := svc.ListForProject(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
