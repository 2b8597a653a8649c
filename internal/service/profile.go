package service

import (
	"context"
	"errors"
	"io"

	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/internal/storage"
)

// ProfileRepository defines the interface for profile storage
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*model.Profile, error)
	Delete(ctx context.Context, userID string) error
}

// ProfileService handles user profile operations
type ProfileService struct {
	profileRepo ProfileRepository
	avatars     storage.AvatarStore
	hub         *LibraryHub
}

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	ProfileRepo ProfileRepository
	Avatars     storage.AvatarStore
	Hub         *LibraryHub
}

// NewProfileService creates a new profile service
func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	return &ProfileService{
		profileRepo: cfg.ProfileRepo,
		avatars:     cfg.Avatars,
		hub:         cfg.Hub,
	}
}

// Get retrieves a user's profile, creating an empty one on first read.
// Accounts registered before profiles existed are healed here.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &model.Profile{UserID: userID}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateRequest represents partial profile field changes
type UpdateRequest struct {
	DisplayName *string
	Bio         *string
}

// Update applies profile field changes
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateRequest) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	if req.DisplayName != nil && len(*req.DisplayName) > model.MaxDisplayNameLength {
		return nil, ErrDisplayNameTooLong
	}
	if req.Bio != nil && len(*req.Bio) > model.MaxBioLength {
		return nil, ErrBioTooLong
	}

	// Heal a missing profile before updating it
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) == 0 {
		return s.profileRepo.GetByUserID(ctx, userID)
	}

	profile, err := s.profileRepo.Update(ctx, userID, updates)
	if err != nil {
		return nil, err
	}

	s.broadcastProfile(userID)
	return profile, nil
}

// UploadAvatar stores a new avatar image and points the profile at it.
// The previous avatar file is removed once the profile switch succeeds.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID, contentType string, r io.Reader) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.avatars.Save(userID, contentType, r)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			return nil, ErrAvatarUnsupported
		case errors.Is(err, storage.ErrTooLarge):
			return nil, ErrAvatarTooLarge
		}
		return nil, err
	}

	profile, err := s.profileRepo.Update(ctx, userID, map[string]interface{}{"avatar_url": url})
	if err != nil {
		// The profile still points at the old file; drop the new one
		_ = s.avatars.Remove(url)
		return nil, err
	}

	if current.AvatarURL != nil && *current.AvatarURL != url {
		_ = s.avatars.Remove(*current.AvatarURL)
	}

	s.broadcastProfile(userID)
	return profile, nil
}

func (s *ProfileService) broadcastProfile(userID string) {
	if s.hub == nil {
		return
	}
	s.hub.SendToUser(userID, Event{
		Type: EventProfileUpdated,
		Data: map[string]string{"user_id": userID},
	})
}
