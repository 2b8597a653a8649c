package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gameflow/api/internal/database"
	"github.com/gameflow/api/internal/model"
)

// LibraryRepository handles library entry data access
type LibraryRepository struct {
	db database.Database
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db database.Database) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// Create adds a game to a user's library
func (r *LibraryRepository) Create(ctx context.Context, entry *model.LibraryEntry) error {
	query := `
		CREATE library_entry CONTENT {
			user: type::record($user),
			game: type::record($game),
			status: $status,
			progress: IF $progress IS NOT NULL THEN $progress ELSE NONE END,
			rating: IF $rating IS NOT NULL THEN $rating ELSE NONE END,
			notes: $notes,
			added_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user":     entry.UserID,
		"game":     entry.GameID,
		"status":   entry.Status,
		"progress": intPtrToNone(entry.Progress),
		"rating":   intPtrToNone(entry.Rating),
		"notes":    entry.Notes,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: game already in library", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	entry.ID = created.ID
	entry.AddedOn = created.CreatedOn
	return nil
}

// ListByUser retrieves a user's library with game summaries expanded
func (r *LibraryRepository) ListByUser(ctx context.Context, userID string) ([]*model.LibraryEntry, error) {
	query := `
		SELECT * FROM library_entry
		WHERE user = type::record($user)
		ORDER BY added_on DESC
		FETCH game
	`
	vars := map[string]interface{}{"user": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LibraryEntry, 0)
	for _, raw := range result {
		for _, row := range unwrapRows(raw) {
			entry, err := parseLibraryEntryResult(row)
			if err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// GetByID retrieves a single library entry
func (r *LibraryRepository) GetByID(ctx context.Context, id string) (*model.LibraryEntry, error) {
	query := `SELECT * FROM type::record($id) FETCH game`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry, err := parseLibraryEntryResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// GetByUserAndGame retrieves the entry a user holds for a specific game
func (r *LibraryRepository) GetByUserAndGame(ctx context.Context, userID, gameID string) (*model.LibraryEntry, error) {
	query := `
		SELECT * FROM library_entry
		WHERE user = type::record($user) AND game = type::record($game)
		LIMIT 1
		FETCH game
	`
	vars := map[string]interface{}{
		"user": userID,
		"game": gameID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry, err := parseLibraryEntryResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Update applies partial field changes and returns the updated entry
func (r *LibraryRepository) Update(ctx context.Context, id string, update *model.LibraryUpdate) (*model.LibraryEntry, error) {
	// Build query dynamically so untouched fields keep their values
	query := `UPDATE type::record($id) SET updated_on = time::now()`
	vars := map[string]interface{}{"id": id}

	if update.Status != nil {
		query += ", status = $status"
		vars["status"] = *update.Status
	}
	if update.Progress != nil {
		query += ", progress = $progress"
		vars["progress"] = *update.Progress
	}
	if update.Rating != nil {
		query += ", rating = $rating"
		vars["rating"] = *update.Rating
	}
	if update.Notes != nil {
		query += ", notes = $notes"
		vars["notes"] = *update.Notes
	}

	query += ` RETURN AFTER FETCH game`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry, err := parseLibraryEntryResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Delete removes a library entry
func (r *LibraryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// DeleteByUserAndGame removes whatever entry a user holds for a game
func (r *LibraryRepository) DeleteByUserAndGame(ctx context.Context, userID, gameID string) error {
	query := `DELETE library_entry WHERE user = type::record($user) AND game = type::record($game)`
	vars := map[string]interface{}{
		"user": userID,
		"game": gameID,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseLibraryEntryResult(result interface{}) (*model.LibraryEntry, error) {
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

	entry := &model.LibraryEntry{
		Status:   model.LibraryStatus(getString(data, "status")),
		Progress: getIntPtr(data, "progress"),
		Rating:   getIntPtr(data, "rating"),
		Notes:    getString(data, "notes"),
	}

	if id, ok := data["id"]; ok {
		entry.ID = convertSurrealID(id)
	}
	if user, ok := data["user"]; ok {
		entry.UserID = convertSurrealID(user)
	}
	if v, ok := data["added_on"]; ok {
		entry.AddedOn = parseTime(v)
	}

	// The game link arrives fetched (full record) or bare (record id only)
	if game, ok := data["game"]; ok {
		if gameData, ok := asMap(game); ok {
			summary := &model.GameSummary{
				Title:       getString(gameData, "title"),
				Slug:        getString(gameData, "slug"),
				CoverURL:    getStringPtr(gameData, "cover_url"),
				Description: getStringPtr(gameData, "description"),
			}
			if gid, ok := gameData["id"]; ok {
				summary.ID = convertSurrealID(gid)
			}
			summary.ReleaseDate = getTime(gameData, "release_date")
			entry.GameID = summary.ID
			entry.Game = summary
		} else {
			entry.GameID = convertSurrealID(game)
		}
	}

	return entry, nil
}

// intPtrToNone converts an int pointer for optional SurrealDB fields
func intPtrToNone(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
