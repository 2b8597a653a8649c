package service

import (
	"context"

	"github.com/gameflow/api/internal/model"
)

// LibraryRepository defines the interface for library entry storage
type LibraryRepository interface {
	Create(ctx context.Context, entry *model.LibraryEntry) error
	ListByUser(ctx context.Context, userID string) ([]*model.LibraryEntry, error)
	GetByID(ctx context.Context, id string) (*model.LibraryEntry, error)
	GetByUserAndGame(ctx context.Context, userID, gameID string) (*model.LibraryEntry, error)
	Update(ctx context.Context, id string, update *model.LibraryUpdate) (*model.LibraryEntry, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserAndGame(ctx context.Context, userID, gameID string) error
}

// LibraryService manages per-user game libraries. Every write verifies
// the caller's identity against the entry it touches and broadcasts the
// change to the user's open sessions; there are no retries and no
// partially applied writes.
type LibraryService struct {
	libraryRepo LibraryRepository
	gameRepo    GameRepository
	hub         *LibraryHub
}

// LibraryServiceConfig holds configuration for the library service
type LibraryServiceConfig struct {
	LibraryRepo LibraryRepository
	GameRepo    GameRepository
	Hub         *LibraryHub
}

// NewLibraryService creates a new library service
func NewLibraryService(cfg LibraryServiceConfig) *LibraryService {
	return &LibraryService{
		libraryRepo: cfg.LibraryRepo,
		gameRepo:    cfg.GameRepo,
		hub:         cfg.Hub,
	}
}

// List retrieves a user's library. An unauthenticated read yields an
// empty library rather than an error; entries whose game is missing or
// unresolvable are dropped from the result.
func (s *LibraryService) List(ctx context.Context, userID string) ([]*model.LibraryEntry, error) {
	if userID == "" {
		return []*model.LibraryEntry{}, nil
	}

	entries, err := s.libraryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Drop orphans: entries that lost their game record or whose game has
	// no slug cannot be rendered or linked
	kept := make([]*model.LibraryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Game == nil || entry.Game.Slug == "" {
			continue
		}
		kept = append(kept, entry)
	}
	return kept, nil
}

// AddRequest represents a request to add a game to a library
type AddRequest struct {
	GameID   string
	Status   model.LibraryStatus
	Progress *int
	Rating   *int
	Notes    string
}

// Add places a game in the user's library. The entry the caller gets
// back carries the server-assigned id and timestamps.
func (s *LibraryService) Add(ctx context.Context, userID string, req AddRequest) (*model.LibraryEntry, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	// New entries default to the wishlist
	status := req.Status
	if status == "" {
		status = model.StatusWishlist
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if err := validateEntryFields(req.Progress, req.Rating, req.Notes); err != nil {
		return nil, err
	}

	game, err := s.gameRepo.GetByID(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	existing, err := s.libraryRepo.GetByUserAndGame(ctx, userID, req.GameID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrGameAlreadyHeld
	}

	entry := &model.LibraryEntry{
		UserID:   userID,
		GameID:   req.GameID,
		Status:   status,
		Progress: req.Progress,
		Rating:   req.Rating,
		Notes:    req.Notes,
	}

	if err := s.libraryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	entry.Game = game.Summary()

	s.broadcast(userID, LibraryAdded, entry.ID, entry.GameID)
	return entry, nil
}

// Update merges partial field changes into an entry the user owns
func (s *LibraryService) Update(ctx context.Context, userID, entryID string, update *model.LibraryUpdate) (*model.LibraryEntry, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if update == nil || update.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if err := validateEntryFields(update.Progress, update.Rating, notesOrEmpty(update.Notes)); err != nil {
		return nil, err
	}

	existing, err := s.libraryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrEntryNotFound
	}
	if existing.UserID != userID {
		return nil, ErrEntryNotOwned
	}

	entry, err := s.libraryRepo.Update(ctx, entryID, update)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	s.broadcast(userID, LibraryUpdated, entry.ID, entry.GameID)
	return entry, nil
}

// Remove deletes an entry the user owns
func (s *LibraryService) Remove(ctx context.Context, userID, entryID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	existing, err := s.libraryRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEntryNotFound
	}
	if existing.UserID != userID {
		return ErrEntryNotOwned
	}

	if err := s.libraryRepo.Delete(ctx, entryID); err != nil {
		return err
	}

	s.broadcast(userID, LibraryRemoved, entryID, existing.GameID)
	return nil
}

// RemoveByGame deletes whatever entry the user holds for a game. Game
// detail pages remove by game id without knowing the entry id.
func (s *LibraryService) RemoveByGame(ctx context.Context, userID, gameID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	existing, err := s.libraryRepo.GetByUserAndGame(ctx, userID, gameID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEntryNotFound
	}

	if err := s.libraryRepo.DeleteByUserAndGame(ctx, userID, gameID); err != nil {
		return err
	}

	s.broadcast(userID, LibraryRemoved, existing.ID, gameID)
	return nil
}

// GetForGame retrieves the entry a user holds for a game, or nil
func (s *LibraryService) GetForGame(ctx context.Context, userID, gameID string) (*model.LibraryEntry, error) {
	if userID == "" {
		return nil, nil
	}
	return s.libraryRepo.GetByUserAndGame(ctx, userID, gameID)
}

func (s *LibraryService) broadcast(userID string, kind LibraryChangeKind, entryID, gameID string) {
	if s.hub == nil {
		return
	}
	s.hub.SendToUser(userID, NewLibraryChangeEvent(kind, entryID, gameID))
}

func validateEntryFields(progress, rating *int, notes string) error {
	if progress != nil && (*progress < model.MinProgress || *progress > model.MaxProgress) {
		return ErrInvalidProgress
	}
	if rating != nil && (*rating < model.MinRating || *rating > model.MaxRating) {
		return ErrInvalidRating
	}
	if len(notes) > model.MaxNotesLen {
		return ErrNotesTooLong
	}
	return nil
}

func notesOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
