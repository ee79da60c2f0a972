package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, firebase_uid, email, display_name, avatar_url, timezone, time_format, theme, created_at, updated_at`

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Upsert inserts a user or refreshes the profile of the existing row with the same firebase_uid.
func (r *UserRepo) Upsert(ctx context.Context, req *CreateUserRequest) (*User, error) {
	query := `
		INSERT INTO users (firebase_uid, email, display_name, avatar_url, timezone, time_format, theme)
		VALUES ($1, $2, $3, $4, COALESCE($5, 'UTC'), COALESCE($6, '24h'), COALESCE($7, 'dark'))
		ON CONFLICT ON CONSTRAINT users_firebase_uid_key
		DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query,
		req.FirebaseUID, req.Email, req.DisplayName, req.AvatarURL, req.Timezone, req.TimeFormat, req.Theme)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE firebase_uid = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, firebaseUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Update applies the patch with a fixed statement; NULL parameters keep the stored value.
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	query := `
		UPDATE users
		SET display_name = COALESCE($2, display_name),
			avatar_url = COALESCE($3, avatar_url),
			timezone = COALESCE($4, timezone),
			time_format = COALESCE($5, time_format),
			theme = COALESCE($6, theme),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id, req.DisplayName, req.AvatarURL, req.Timezone, req.TimeFormat, req.Theme)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
