package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gameflow/api/internal/database"
	"github.com/gameflow/api/internal/model"
)

// GameRepository handles catalog data access
type GameRepository struct {
	db database.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.Database) *GameRepository {
	return &GameRepository{db: db}
}

// gameFetch expands the record links shared by every game query
const gameFetch = ` FETCH genres, platforms, developer, publisher`

// ListAll retrieves the full catalog with references expanded
func (r *GameRepository) ListAll(ctx context.Context) ([]*model.Game, error) {
	query := `SELECT * FROM game` + gameFetch

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	return parseGamesResult(result)
}

// GetByID retrieves a game by ID
func (r *GameRepository) GetByID(ctx context.Context, id string) (*model.Game, error) {
	query := `SELECT * FROM type::record($id)` + gameFetch
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	game, err := parseGameResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return game, nil
}

// GetBySlug retrieves a game by its URL slug
func (r *GameRepository) GetBySlug(ctx context.Context, slug string) (*model.Game, error) {
	query := `SELECT * FROM game WHERE slug = $slug LIMIT 1` + gameFetch
	vars := map[string]interface{}{"slug": slug}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	game, err := parseGameResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return game, nil
}

// Newest retrieves the most recently released games
func (r *GameRepository) Newest(ctx context.Context, limit int) ([]*model.Game, error) {
	query := `
		SELECT * FROM game
		WHERE release_date != NONE
		ORDER BY release_date DESC
		LIMIT $limit` + gameFetch
	vars := map[string]interface{}{"limit": limit}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseGamesResult(result)
}

// TopRated retrieves the highest rated games
func (r *GameRepository) TopRated(ctx context.Context, limit int) ([]*model.Game, error) {
	query := `
		SELECT * FROM game
		WHERE average_rating != NONE
		ORDER BY average_rating DESC
		LIMIT $limit` + gameFetch
	vars := map[string]interface{}{"limit": limit}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseGamesResult(result)
}

// TrendingIDs returns the games most added to libraries since the cutoff,
// ordered by add count. Callers resolve the ids to full games.
func (r *GameRepository) TrendingIDs(ctx context.Context, since time.Time, limit int) ([]string, error) {
	query := `
		SELECT game, count() AS adds FROM library_entry
		WHERE added_on > <datetime>$since
		GROUP BY game
		ORDER BY adds DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"since": since.Format(time.RFC3339),
		"limit": limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, limit)
	for _, raw := range result {
		for _, row := range unwrapRows(raw) {
			data, ok := asMap(row)
			if !ok {
				continue
			}
			if game, ok := data["game"]; ok {
				if id := convertSurrealID(game); id != "" {
					ids = append(ids, id)
				}
			}
		}
	}
	return ids, nil
}

// parseGamesResult parses a multi-row game query result
func parseGamesResult(result []interface{}) ([]*model.Game, error) {
	games := make([]*model.Game, 0)

	for _, raw := range result {
		for _, row := range unwrapRows(raw) {
			game, err := parseGameResult(row)
			if err != nil {
				continue
			}
			games = append(games, game)
		}
	}

	return games, nil
}

func parseGameResult(result interface{}) (*model.Game, error) {
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

	game := &model.Game{
		Title:         getString(data, "title"),
		Slug:          getString(data, "slug"),
		CoverURL:      getStringPtr(data, "cover_url"),
		Description:   getStringPtr(data, "description"),
		AverageRating: getFloatPtr(data, "average_rating"),
	}

	if id, ok := data["id"]; ok {
		game.ID = convertSurrealID(id)
	}
	game.ReleaseDate = getTime(data, "release_date")
	if v, ok := data["created_on"]; ok {
		game.CreatedOn = parseTime(v)
	}

	game.Genres = parseReferences(data["genres"])
	game.Platforms = parseReferences(data["platforms"])
	game.Developer = parseReference(data["developer"])
	game.Publisher = parseReference(data["publisher"])

	return game, nil
}

// parseReference parses a fetched record link into a Reference.
// Unfetched links (bare record ids) keep the id and leave the name empty.
func parseReference(v interface{}) *model.Reference {
	if v == nil {
		return nil
	}

	if data, ok := asMap(v); ok {
		ref := &model.Reference{Name: getString(data, "name")}
		if id, ok := data["id"]; ok {
			ref.ID = convertSurrealID(id)
		}
		if ref.ID == "" && ref.Name == "" {
			return nil
		}
		return ref
	}

	if id := convertSurrealID(v); id != "" {
		return &model.Reference{ID: id}
	}
	return nil
}

func parseReferences(v interface{}) []model.Reference {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}

	refs := make([]model.Reference, 0, len(arr))
	for _, item := range arr {
		if ref := parseReference(item); ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs
}
