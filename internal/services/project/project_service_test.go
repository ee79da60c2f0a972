package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	projects map[uuid.UUID]*Project
	updates  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{projects: map[uuid.UUID]*Project{}}
}

func (f *fakeRepo) Create(_ context.Context, req *CreateProjectRequest) (*Project, error) {
	color := DefaultColor
	if req.Color != nil {
		color = *req.Color
	}
	p := &Project{ID: uuid.New(), UserID: req.UserID, Name: req.Name, Description: req.Description, Color: color, IsActive: true, CreatedAt: time.Now()}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetSummary(ctx context.Context, id uuid.UUID) (*ProjectSummary, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectSummary{Project: *p}, nil
}

func (f *fakeRepo) ListSummaries(_ context.Context, userID uuid.UUID) ([]*ProjectSummary, error) {
	out := []*ProjectSummary{}
	for _, p := range f.projects {
		if p.UserID == userID && p.IsActive {
			out = append(out, &ProjectSummary{Project: *p})
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	f.updates++
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
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
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := f.projects[id]
	if !ok {
		return ErrProjectNotFound
	}
	p.IsActive = false
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateValidatesNameAndColor(t *testing.T) {
	svc := NewProjectService(newFakeRepo())
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Create(ctx, &CreateProjectRequest{UserID: owner, Name: "   "})
	assert.ErrorIs(t, err, ErrProjectNameRequired)

	_, err = svc.Create(ctx, &CreateProjectRequest{UserID: owner, Name: "Docs", Color: ptr("yellow")})
	assert.ErrorIs(t, err, ErrInvalidColor)

	p, err := svc.Create(ctx, &CreateProjectRequest{UserID: owner, Name: " Docs "})
	require.NoError(t, err)
	assert.Equal(t, "Docs", p.Name)
	assert.Equal(t, DefaultColor, p.Color)
	assert.True(t, p.IsActive)
}

func TestGetOwnedChecksExistenceBeforeOwnership(t *testing.T) {
	svc := NewProjectService(newFakeRepo())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	p, err := svc.Create(ctx, &CreateProjectRequest{UserID: owner, Name: "Docs"})
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, other, uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = svc.GetOwned(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrProjectForbidden)

	got, err := svc.GetOwned(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestUpdateEmptyPatchSkipsWrite(t *testing.T) {
	repo := newFakeRepo()
	svc := NewProjectService(repo)
	ctx := context.Background()
	owner := uuid.New()

	p, err := svc.Create(ctx, &CreateProjectRequest{UserID: owner, Name: "Docs"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, owner, p.ID, &UpdateProjectRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Docs", got.Name)
	assert.Zero(t, repo.updates)

	_, err = svc.Update(ctx, owner, p.ID, &UpdateProjectRequest{Name: ptr("")})
	assert.ErrorIs(t, err, ErrProjectNameRequired)

	got, err = svc.Update(ctx, owner, p.ID, &UpdateProjectRequest{Color: ptr("#112233")})
	require.NoError(t, err)
	assert.Equal(t, "#112233", got.Color)
	assert.Equal(t, "Docs", got.Name)
}

func TestUpdateClearsDescription(t *testing.T) {
	repo := newFakeRepo()
	svc := NewProjectService(repo)
	ctx := context.Background()
	owner := uuid.New()

	p, err := svc.Create(ctx, &CreateProjectRequest{UserID: owner, Name: "Docs", Description: ptr("team docs")})
	require.NoError(t, err)

	got, err := svc.Update(ctx, owner, p.ID, &UpdateProjectRequest{ClearDescription: true})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.Equal(t, 1, repo.updates)
}

func TestDeleteIsSoftAndHidesFromListing(t *testing.T) {
	svc := NewProjectService(newFakeRepo())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	p, err := svc.Create(ctx, &CreateProjectRequest{UserID: owner, Name: "Docs"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, other, p.ID), ErrProjectForbidden)
	require.NoError(t, svc.Delete(ctx, owner, p.ID))

	list, err := svc.ListForUser(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.GetOwned(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
