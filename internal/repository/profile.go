package repository

import (
	"context"
	"errors"

	"github.com/gameflow/api/internal/database"
	"github.com/gameflow/api/internal/model"
)

// ProfileRepository handles user profile data access
type ProfileRepository struct {
	db database.Database
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.Database) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new user profile
func (r *ProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	// Build query dynamically to avoid NULL vs NONE issues for optional fields
	setClause := `user = type::record($user_id), created_on = time::now(), updated_on = time::now()`
	vars := map[string]interface{}{
		"user_id": profile.UserID,
	}

	if profile.DisplayName != nil {
		setClause += ", display_name = $display_name"
		vars["display_name"] = *profile.DisplayName
	}
	if profile.Bio != nil {
		setClause += ", bio = $bio"
		vars["bio"] = *profile.Bio
	}
	if profile.AvatarURL != nil {
		setClause += ", avatar_url = $avatar_url"
		vars["avatar_url"] = *profile.AvatarURL
	}

	query := "CREATE profile SET " + setClause
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	profile.ID = created.ID
	profile.CreatedOn = created.CreatedOn
	profile.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByUserID retrieves a profile by user ID
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT * FROM profile WHERE user = type::record($user_id) LIMIT 1`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	profile, err := parseProfileResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// Update applies profile field changes and returns the updated profile
func (r *ProfileRepository) Update(ctx context.Context, userID string, updates map[string]interface{}) (*model.Profile, error) {
	// Build dynamic update query
	query := `UPDATE profile SET updated_on = time::now()`
	vars := map[string]interface{}{"user_id": userID}

	if displayName, ok := updates["display_name"]; ok {
		query += ", display_name = $display_name"
		vars["display_name"] = displayName
	}
	if bio, ok := updates["bio"]; ok {
		query += ", bio = $bio"
		vars["bio"] = bio
	}
	if avatarURL, ok := updates["avatar_url"]; ok {
		query += ", avatar_url = $avatar_url"
		vars["avatar_url"] = avatarURL
	}

	query += ` WHERE user = type::record($user_id) RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseProfileResult(result)
}

// Delete deletes a user profile
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE profile WHERE user = type::record($user_id)`
	vars := map[string]interface{}{"user_id": userID}

	return r.db.Execute(ctx, query, vars)
}

func parseProfileResult(result interface{}) (*model.Profile, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	rows := unwrapRows(result)
	if len(rows) == 0 {
		return nil, database.ErrNotFound
	}

	data, ok := asMap(rows[0])
	if !ok {
		return nil, errBadResultFormat
	}

	profile := &model.Profile{
		DisplayName: getStringPtr(data, "display_name"),
		Bio:         getStringPtr(data, "bio"),
		AvatarURL:   getStringPtr(data, "avatar_url"),
	}

	if id, ok := data["id"]; ok {
		profile.ID = convertSurrealID(id)
	}
	if user, ok := data["user"]; ok {
		profile.UserID = convertSurrealID(user)
	}
	if v, ok := data["created_on"]; ok {
		profile.CreatedOn = parseTime(v)
	}
	if v, ok := data["updated_on"]; ok {
		profile.UpdatedOn = parseTime(v)
	}

	return profile, nil
}
