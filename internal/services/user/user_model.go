package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimezone   = "UTC"
	DefaultTimeFormat = "24h"
	DefaultTheme      = "dark"
)

// User mirrors an identity-provider subject. FirebaseUID is the bearer subject id.
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirebaseUID string    `db:"firebase_uid" json:"firebase_uid"`
	Email       string    `db:"email" json:"email"`
	DisplayName *string   `db:"display_name" json:"display_name"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url"`
	Timezone    string    `db:"timezone" json:"timezone"`
	TimeFormat  string    `db:"time_format" json:"time_format"`
	Theme       string    `db:"theme" json:"theme"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateUserRequest captures payload for registering a user
type CreateUserRequest struct {
	FirebaseUID string  `json:"firebase_uid"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	TimeFormat  *string `json:"time_format,omitempty"`
	Theme       *string `json:"theme,omitempty"`
}

// UpdateUserRequest is a patch; nil fields are left untouched
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	TimeFormat  *string `json:"time_format,omitempty"`
	Theme       *string `json:"theme,omitempty"`
}

func (r *UpdateUserRequest) empty() bool {
	return r.DisplayName == nil && r.AvatarURL == nil && r.Timezone == nil && r.TimeFormat == nil && r.Theme == nil
}
