package model

import "time"

// Profile limits enforced at the service layer.
const (
	MaxDisplayNameLength = 50
	MaxBioLength         = 500
)

// Profile represents a user's public profile. A profile is created
// implicitly alongside registration and healed on first read if missing,
// so every authenticated user can be assumed to have one.
type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName *string   `json:"display_name,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}
