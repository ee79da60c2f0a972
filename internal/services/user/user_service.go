package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrMissingIdentity = errors.New("firebase_uid and email are required")

// Repository is the persistence contract of UserService.
type Repository interface {
	Upsert(ctx context.Context, req *CreateUserRequest) (*User, error)
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserService struct {
	repo Repository
}

func NewUserService(repo Repository) *UserService {
	return &UserService{repo: repo}
}

// Register returns the existing user for the subject, or creates one. The bool reports creation.
func (s *UserService) Register(ctx context.Context, req *CreateUserRequest) (*User, bool, error) {
	if req.FirebaseUID == "" || req.Email == "" {
		return nil, false, ErrMissingIdentity
	}

	existing, err := s.repo.GetByFirebaseUID(ctx, req.FirebaseUID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	created, err := s.repo.Upsert(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// GetByFirebaseUID resolves a bearer subject to its user row.
func (s *UserService) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	if firebaseUID == "" {
		return nil, ErrUserNotFound
	}
	return s.repo.GetByFirebaseUID(ctx, firebaseUID)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	if req.empty() {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.Update(ctx, id, req)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
