package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gameflow/api/internal/model"
)

// mockLibraryRepo implements LibraryRepository with function fields
type mockLibraryRepo struct {
	createFunc              func(ctx context.Context, entry *model.LibraryEntry) error
	listByUserFunc          func(ctx context.Context, userID string) ([]*model.LibraryEntry, error)
	getByIDFunc             func(ctx context.Context, id string) (*model.LibraryEntry, error)
	getByUserAndGameFunc    func(ctx context.Context, userID, gameID string) (*model.LibraryEntry, error)
	updateFunc              func(ctx context.Context, id string, update *model.LibraryUpdate) (*model.LibraryEntry, error)
	deleteFunc              func(ctx context.Context, id string) error
	deleteByUserAndGameFunc func(ctx context.Context, userID, gameID string) error
}

func (m *mockLibraryRepo) Create(ctx context.Context, entry *model.LibraryEntry) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, entry)
	}
	entry.ID = "library_entry:new"
	entry.AddedOn = time.Now()
	return nil
}

func (m *mockLibraryRepo) ListByUser(ctx context.Context, userID string) ([]*model.LibraryEntry, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockLibraryRepo) GetByID(ctx context.Context, id string) (*model.LibraryEntry, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockLibraryRepo) GetByUserAndGame(ctx context.Context, userID, gameID string) (*model.LibraryEntry, error) {
	if m.getByUserAndGameFunc != nil {
		return m.getByUserAndGameFunc(ctx, userID, gameID)
	}
	return nil, nil
}

func (m *mockLibraryRepo) Update(ctx context.Context, id string, update *model.LibraryUpdate) (*model.LibraryEntry, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return nil, nil
}

func (m *mockLibraryRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockLibraryRepo) DeleteByUserAndGame(ctx context.Context, userID, gameID string) error {
	if m.deleteByUserAndGameFunc != nil {
		return m.deleteByUserAndGameFunc(ctx, userID, gameID)
	}
	return nil
}

// mockGameRepo implements GameRepository with function fields
type mockGameRepo struct {
	listAllFunc     func(ctx context.Context) ([]*model.Game, error)
	getByIDFunc     func(ctx context.Context, id string) (*model.Game, error)
	getBySlugFunc   func(ctx context.Context, slug string) (*model.Game, error)
	newestFunc      func(ctx context.Context, limit int) ([]*model.Game, error)
	topRatedFunc    func(ctx context.Context, limit int) ([]*model.Game, error)
	trendingIDsFunc func(ctx context.Context, since time.Time, limit int) ([]string, error)
}

func (m *mockGameRepo) ListAll(ctx context.Context) ([]*model.Game, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockGameRepo) GetByID(ctx context.Context, id string) (*model.Game, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockGameRepo) GetBySlug(ctx context.Context, slug string) (*model.Game, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockGameRepo) Newest(ctx context.Context, limit int) ([]*model.Game, error) {
	if m.newestFunc != nil {
		return m.newestFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockGameRepo) TopRated(ctx context.Context, limit int) ([]*model.Game, error) {
	if m.topRatedFunc != nil {
		return m.topRatedFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockGameRepo) TrendingIDs(ctx context.Context, since time.Time, limit int) ([]string, error) {
	if m.trendingIDsFunc != nil {
		return m.trendingIDsFunc(ctx, since, limit)
	}
	return nil, nil
}

func newLibraryService(libRepo *mockLibraryRepo, gameRepo *mockGameRepo) *LibraryService {
	return NewLibraryService(LibraryServiceConfig{
		LibraryRepo: libRepo,
		GameRepo:    gameRepo,
		Hub:         NewLibraryHub(),
	})
}

func testGame(id string) *model.Game {
	return &model.Game{ID: id, Title: "Test Game", Slug: "test-game"}
}

// ============================================================================
// List
// ============================================================================

func TestLibraryList_NoUser_ReturnsEmpty(t *testing.T) {
	called := false
	libRepo := &mockLibraryRepo{
		listByUserFunc: func(ctx context.Context, userID string) ([]*model.LibraryEntry, error) {
			called = true
			return nil, nil
		},
	}
	svc := newLibraryService(libRepo, &mockGameRepo{})

	entries, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty library for anonymous read, got %d entries", len(entries))
	}
	if called {
		t.Error("repository should not be queried without a user")
	}
}

func TestLibraryList_FiltersOrphanEntries(t *testing.T) {
	libRepo := &mockLibraryRepo{
		listByUserFunc: func(ctx context.Context, userID string) ([]*model.LibraryEntry, error) {
			return []*model.LibraryEntry{
				{ID: "library_entry:1", UserID: userID, Game: &model.GameSummary{ID: "game:1", Title: "Kept", Slug: "kept"}},
				{ID: "library_entry:2", UserID: userID, Game: nil},
				{ID: "library_entry:3", UserID: userID, Game: &model.GameSummary{ID: "game:3", Title: "No Slug"}},
			}, nil
		},
	}
	svc := newLibraryService(libRepo, &mockGameRepo{})

	entries, err := svc.List(context.Background(), "user:alice")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 renderable entry, got %d", len(entries))
	}
	if entries[0].ID != "library_entry:1" {
		t.Errorf("expected library_entry:1 to survive, got %s", entries[0].ID)
	}
}

// ============================================================================
// Add
// ============================================================================

func TestLibraryAdd_NoUser_Rejected(t *testing.T) {
	created := false
	libRepo := &mockLibraryRepo{
		createFunc: func(ctx context.Context, entry *model.LibraryEntry) error {
			created = true
			return nil
		},
	}
	svc := newLibraryService(libRepo, &mockGameRepo{})

	_, err := svc.Add(context.Background(), "", AddRequest{GameID: "game:1"})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if created {
		t.Error("nothing should be written for an anonymous add")
	}
}

func TestLibraryAdd_DefaultsToWishlist(t *testing.T) {
	var createdEntry *model.LibraryEntry
	libRepo := &mockLibraryRepo{
		createFunc: func(ctx context.Context, entry *model.LibraryEntry) error {
			entry.ID = "library_entry:new"
			createdEntry = entry
			return nil
		},
	}
	gameRepo := &mockGameRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Game, error) {
			return testGame(id), nil
		},
	}
	svc := newLibraryService(libRepo, gameRepo)

	entry, err := svc.Add(context.Background(), "user:alice", AddRequest{GameID: "game:1"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if createdEntry.Status != model.StatusWishlist {
		t.Errorf("expected default status wishlist, got %s", createdEntry.Status)
	}
	if entry.ID != "library_entry:new" {
		t.Errorf("expected server-assigned id on the returned entry, got %q", entry.ID)
	}
	if entry.Game == nil || entry.Game.Slug != "test-game" {
		t.Error("expected game summary attached to returned entry")
	}
}

func TestLibraryAdd_UnknownGame_Rejected(t *testing.T) {
	svc := newLibraryService(&mockLibraryRepo{}, &mockGameRepo{})

	_, err := svc.Add(context.Background(), "user:alice", AddRequest{GameID: "game:missing"})
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestLibraryAdd_DuplicateGame_Rejected(t *testing.T) {
	libRepo := &mockLibraryRepo{
		getByUserAndGameFunc: func(ctx context.Context, userID, gameID string) (*model.LibraryEntry, error) {
			return &model.LibraryEntry{ID: "library_entry:1", UserID: userID, GameID: gameID}, nil
		},
	}
	gameRepo := &mockGameRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Game, error) {
			return testGame(id), nil
		},
	}
	svc := newLibraryService(libRepo, gameRepo)

	_, err := svc.Add(context.Background(), "user:alice", AddRequest{GameID: "game:1"})
	if !errors.Is(err, ErrGameAlreadyHeld) {
		t.Errorf("expected ErrGameAlreadyHeld, got %v", err)
	}
}

func TestLibraryAdd_InvalidFields_Rejected(t *testing.T) {
	svc := newLibraryService(&mockLibraryRepo{}, &mockGameRepo{})
	ctx := context.Background()

	progress := 150
	if _, err := svc.Add(ctx, "user:alice", AddRequest{GameID: "game:1", Progress: &progress}); !errors.Is(err, ErrInvalidProgress) {
		t.Errorf("expected ErrInvalidProgress, got %v", err)
	}

	rating := 6
	if _, err := svc.Add(ctx, "user:alice", AddRequest{GameID: "game:1", Rating: &rating}); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating, got %v", err)
	}

	if _, err := svc.Add(ctx, "user:alice", AddRequest{GameID: "game:1", Status: "paused"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

// ============================================================================
// Update
// ============================================================================

func TestLibraryUpdate_MergesPartialFields(t *testing.T) {
	var gotUpdate *model.LibraryUpdate
	libRepo := &mockLibraryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.LibraryEntry, error) {
			return &model.LibraryEntry{ID: id, UserID: "user:alice", GameID: "game:1"}, nil
		},
		updateFunc: func(ctx context.Context, id string, update *model.LibraryUpdate) (*model.LibraryEntry, error) {
			gotUpdate = update
			status := model.StatusPlaying
			progress := 40
			return &model.LibraryEntry{ID: id, UserID: "user:alice", GameID: "game:1", Status: status, Progress: &progress}, nil
		},
	}
	svc := newLibraryService(libRepo, &mockGameRepo{})

	status := model.StatusPlaying
	entry, err := svc.Update(context.Background(), "user:alice", "library_entry:1", &model.LibraryUpdate{Status: &status})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if gotUpdate.Progress != nil || gotUpdate.Rating != nil || gotUpdate.Notes != nil {
		t.Error("only the status field should reach the repository")
	}
	if entry.Status != model.StatusPlaying {
		t.Errorf("expected updated status, got %s", entry.Status)
	}
}

func TestLibraryUpdate_EmptyUpdate_Rejected(t *testing.T) {
	svc := newLibraryService(&mockLibraryRepo{}, &mockGameRepo{})

	_, err := svc.Update(context.Background(), "user:alice", "library_entry:1", &model.LibraryUpdate{})
	if !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("expected ErrEmptyUpdate, got %v", err)
	}
}

func TestLibraryUpdate_OtherUsersEntry_Rejected(t *testing.T) {
	libRepo := &mockLibraryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.LibraryEntry, error) {
			return &model.LibraryEntry{ID: id, UserID: "user:bob", GameID: "game:1"}, nil
		},
	}
	svc := newLibraryService(libRepo, &mockGameRepo{})

	status := model.StatusCompleted
	_, err := svc.Update(context.Background(), "user:alice", "library_entry:1", &model.LibraryUpdate{Status: &status})
	if !errors.Is(err, ErrEntryNotOwned) {
		t.Errorf("expected ErrEntryNotOwned, got %v", err)
	}
}

// ============================================================================
// Remove
// ============================================================================

func TestLibraryRemove_RoundTrip(t *testing.T) {
	deleted := ""
	libRepo := &mockLibraryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.LibraryEntry, error) {
			return &model.LibraryEntry{ID: id, UserID: "user:alice", GameID: "game:1"}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newLibraryService(libRepo, &mockGameRepo{})

	if err := svc.Remove(context.Background(), "user:alice", "library_entry:1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if deleted != "library_entry:1" {
		t.Errorf("expected delete of library_entry:1, got %q", deleted)
	}
}

func TestLibraryRemove_MissingEntry_Rejected(t *testing.T) {
	svc := newLibraryService(&mockLibraryRepo{}, &mockGameRepo{})

	err := svc.Remove(context.Background(), "user:alice", "library_entry:gone")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestLibraryRemoveByGame_DeletesHeldEntry(t *testing.T) {
	deletedGame := ""
	libRepo := &mockLibraryRepo{
		getByUserAndGameFunc: func(ctx context.Context, userID, gameID string) (*model.LibraryEntry, error) {
			return &model.LibraryEntry{ID: "library_entry:1", UserID: userID, GameID: gameID}, nil
		},
		deleteByUserAndGameFunc: func(ctx context.Context, userID, gameID string) error {
			deletedGame = gameID
			return nil
		},
	}
	svc := newLibraryService(libRepo, &mockGameRepo{})

	if err := svc.RemoveByGame(context.Background(), "user:alice", "game:1"); err != nil {
		t.Fatalf("RemoveByGame returned error: %v", err)
	}
	if deletedGame != "game:1" {
		t.Errorf("expected delete for game:1, got %q", deletedGame)
	}
}

// ============================================================================
// Broadcast
// ============================================================================

func TestLibraryAdd_BroadcastsChange(t *testing.T) {
	hub := NewLibraryHub()
	defer hub.Close()

	libRepo := &mockLibraryRepo{}
	gameRepo := &mockGameRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Game, error) {
			return testGame(id), nil
		},
	}
	svc := NewLibraryService(LibraryServiceConfig{LibraryRepo: libRepo, GameRepo: gameRepo, Hub: hub})

	sub := hub.Subscribe("user:alice", "session-1")

	if _, err := svc.Add(context.Background(), "user:alice", AddRequest{GameID: "game:1"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	select {
	case event := <-sub.Events:
		if event.Type != EventLibraryChanged {
			t.Errorf("expected library.changed event, got %s", event.Type)
		}
		data, ok := event.Data.(map[string]string)
		if !ok || data["kind"] != string(LibraryAdded) {
			t.Errorf("expected added kind, got %v", event.Data)
		}
	default:
		t.Fatal("expected a broadcast event after add")
	}
}
