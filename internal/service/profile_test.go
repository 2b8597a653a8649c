package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/internal/storage"
)

// mockProfileRepo implements ProfileRepository with function fields
type mockProfileRepo struct {
	createFunc      func(ctx context.Context, profile *model.Profile) error
	getByUserIDFunc func(ctx context.Context, userID string) (*model.Profile, error)
	updateFunc      func(ctx context.Context, userID string, updates map[string]interface{}) (*model.Profile, error)
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, profile)
	}
	profile.ID = "profile:new"
	return nil
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) (*model.Profile, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, updates)
	}
	return &model.Profile{ID: "profile:1", UserID: userID}, nil
}

func (m *mockProfileRepo) Delete(ctx context.Context, userID string) error {
	return nil
}

// fakeAvatarStore records saves and removals in memory
type fakeAvatarStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fakeAvatarStore) Save(ownerID, contentType string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := "/avatars/" + ownerID + "-" + contentType
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeAvatarStore) Remove(url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func newProfileService(repo ProfileRepository, avatars storage.AvatarStore) *ProfileService {
	return NewProfileService(ProfileServiceConfig{
		ProfileRepo: repo,
		Avatars:     avatars,
	})
}

// ============================================================================
// Get
// ============================================================================

func TestProfileGet_HealsMissingProfile(t *testing.T) {
	created := false
	repo := &mockProfileRepo{
		createFunc: func(ctx context.Context, profile *model.Profile) error {
			created = true
			profile.ID = "profile:new"
			return nil
		},
	}
	svc := newProfileService(repo, &fakeAvatarStore{})

	profile, err := svc.Get(context.Background(), "user:alice")
	require.NoError(t, err)
	assert.True(t, created, "missing profile should be created on read")
	assert.Equal(t, "user:alice", profile.UserID)
}

func TestProfileGet_ExistingProfile_NotRecreated(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{ID: "profile:1", UserID: userID}, nil
		},
		createFunc: func(ctx context.Context, profile *model.Profile) error {
			t.Fatal("existing profile must not be recreated")
			return nil
		},
	}
	svc := newProfileService(repo, &fakeAvatarStore{})

	profile, err := svc.Get(context.Background(), "user:alice")
	require.NoError(t, err)
	assert.Equal(t, "profile:1", profile.ID)
}

func TestProfileGet_Anonymous_Rejected(t *testing.T) {
	svc := newProfileService(&mockProfileRepo{}, &fakeAvatarStore{})

	_, err := svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

// ============================================================================
// Update
// ============================================================================

func TestProfileUpdate_OnlySetFieldsReachRepo(t *testing.T) {
	var received map[string]interface{}
	repo := &mockProfileRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{ID: "profile:1", UserID: userID}, nil
		},
		updateFunc: func(ctx context.Context, userID string, updates map[string]interface{}) (*model.Profile, error) {
			received = updates
			return &model.Profile{ID: "profile:1", UserID: userID}, nil
		},
	}
	svc := newProfileService(repo, &fakeAvatarStore{})

	name := "Alice"
	_, err := svc.Update(context.Background(), "user:alice", UpdateRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", received["display_name"])
	assert.NotContains(t, received, "bio")
}

func TestProfileUpdate_LengthLimits(t *testing.T) {
	svc := newProfileService(&mockProfileRepo{}, &fakeAvatarStore{})
	ctx := context.Background()

	longName := strings.Repeat("x", model.MaxDisplayNameLength+1)
	_, err := svc.Update(ctx, "user:alice", UpdateRequest{DisplayName: &longName})
	assert.ErrorIs(t, err, ErrDisplayNameTooLong)

	longBio := strings.Repeat("x", model.MaxBioLength+1)
	_, err = svc.Update(ctx, "user:alice", UpdateRequest{Bio: &longBio})
	assert.ErrorIs(t, err, ErrBioTooLong)
}

// ============================================================================
// UploadAvatar
// ============================================================================

func TestUploadAvatar_ReplacesOldFile(t *testing.T) {
	oldURL := "/avatars/user_alice-old.png"
	repo := &mockProfileRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{ID: "profile:1", UserID: userID, AvatarURL: &oldURL}, nil
		},
		updateFunc: func(ctx context.Context, userID string, updates map[string]interface{}) (*model.Profile, error) {
			url := updates["avatar_url"].(string)
			return &model.Profile{ID: "profile:1", UserID: userID, AvatarURL: &url}, nil
		},
	}
	avatars := &fakeAvatarStore{}
	svc := newProfileService(repo, avatars)

	profile, err := svc.UploadAvatar(context.Background(), "user:alice", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.NotNil(t, profile.AvatarURL)
	assert.Len(t, avatars.saved, 1)
	assert.Equal(t, []string{oldURL}, avatars.removed, "old avatar file should be removed after the switch")
}

func TestUploadAvatar_UnsupportedType_Mapped(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{ID: "profile:1", UserID: userID}, nil
		},
	}
	svc := newProfileService(repo, &fakeAvatarStore{saveErr: storage.ErrUnsupportedType})

	_, err := svc.UploadAvatar(context.Background(), "user:alice", "image/gif", strings.NewReader("gif"))
	assert.ErrorIs(t, err, ErrAvatarUnsupported)
}

func TestUploadAvatar_UpdateFailure_DropsNewFile(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{ID: "profile:1", UserID: userID}, nil
		},
		updateFunc: func(ctx context.Context, userID string, updates map[string]interface{}) (*model.Profile, error) {
			return nil, errors.New("write failed")
		},
	}
	avatars := &fakeAvatarStore{}
	svc := newProfileService(repo, avatars)

	_, err := svc.UploadAvatar(context.Background(), "user:alice", "image/png", strings.NewReader("png"))
	require.Error(t, err)
	require.Len(t, avatars.saved, 1)
	assert.Equal(t, avatars.saved, avatars.removed, "orphaned new file should be cleaned up")
}
