package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gameflow/api/internal/cache"
	"github.com/gameflow/api/internal/model"
)

const (
	catalogCacheKey = "catalog:games"

	// trendingLookback bounds which library adds count toward trending
	trendingLookback = 7 * 24 * time.Hour
)

// GameRepository defines the interface for catalog storage
type GameRepository interface {
	ListAll(ctx context.Context) ([]*model.Game, error)
	GetByID(ctx context.Context, id string) (*model.Game, error)
	GetBySlug(ctx context.Context, slug string) (*model.Game, error)
	Newest(ctx context.Context, limit int) ([]*model.Game, error)
	TopRated(ctx context.Context, limit int) ([]*model.Game, error)
	TrendingIDs(ctx context.Context, since time.Time, limit int) ([]string, error)
}

// MetadataRepository defines the interface for filter vocabulary storage
type MetadataRepository interface {
	ListGenres(ctx context.Context) ([]model.Reference, error)
	ListPlatforms(ctx context.Context) ([]model.Reference, error)
	ListDevelopers(ctx context.Context) ([]model.Reference, error)
	ListPublishers(ctx context.Context) ([]model.Reference, error)
}

// CatalogService serves the browsable game catalog. The full catalog is
// cached and filtered in memory; the collection view engine does the
// filtering, sorting and windowing.
type CatalogService struct {
	gameRepo GameRepository
	metaRepo MetadataRepository
	cache    cache.Cache
	cacheTTL time.Duration
	view     *CollectionView
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	GameRepo GameRepository
	MetaRepo MetadataRepository
	Cache    cache.Cache
	CacheTTL time.Duration // Default: 5 minutes
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &CatalogService{
		gameRepo: cfg.GameRepo,
		metaRepo: cfg.MetaRepo,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		view:     NewCollectionView(),
	}
}

// BrowseResult is one windowed view of the filtered catalog
type BrowseResult struct {
	Games   []*model.Game `json:"games"`
	Visible int           `json:"visible"`
	Total   int           `json:"total"`
	HasMore bool          `json:"has_more"`
}

// Browse filters, sorts and windows the catalog. A failed catalog load
// degrades to an empty result rather than an error so the browse surface
// stays up while the database is unreachable.
func (s *CatalogService) Browse(ctx context.Context, filter Filter, key SortKey, visible int) (*BrowseResult, error) {
	if key != "" && !key.IsValid() {
		return nil, ErrInvalidSort
	}
	if visible < 0 {
		return nil, ErrInvalidWindow
	}
	if visible == 0 {
		visible = DefaultWindow
	}

	games, err := s.loadCatalog(ctx)
	if err != nil {
		slog.Warn("catalog load failed, serving empty result", slog.Any("error", err))
		return &BrowseResult{Games: []*model.Game{}, Visible: 0, Total: 0, HasMore: false}, nil
	}

	matched := s.view.Apply(games, filter, key)
	page, hasMore := Page(matched, visible)

	return &BrowseResult{
		Games:   page,
		Visible: len(page),
		Total:   len(matched),
		HasMore: hasMore,
	}, nil
}

// GetByID retrieves a single game
func (s *CatalogService) GetByID(ctx context.Context, id string) (*model.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// GetBySlug retrieves a single game by its URL slug
func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*model.Game, error) {
	game, err := s.gameRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// Newest retrieves the most recently released games
func (s *CatalogService) Newest(ctx context.Context, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		limit = DefaultWindow
	}
	return s.gameRepo.Newest(ctx, limit)
}

// TopRated retrieves the highest rated games
func (s *CatalogService) TopRated(ctx context.Context, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		limit = DefaultWindow
	}
	return s.gameRepo.TopRated(ctx, limit)
}

// Trending retrieves the games most added to libraries over the last week.
// When no adds happened recently it falls back to the top rated list.
func (s *CatalogService) Trending(ctx context.Context, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		limit = DefaultWindow
	}

	ids, err := s.gameRepo.TrendingIDs(ctx, time.Now().Add(-trendingLookback), limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return s.gameRepo.TopRated(ctx, limit)
	}

	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		game, err := s.gameRepo.GetByID(ctx, id)
		if err != nil || game == nil {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

// Metadata retrieves the filter vocabulary
func (s *CatalogService) Metadata(ctx context.Context) (*model.Metadata, error) {
	genres, err := s.metaRepo.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	platforms, err := s.metaRepo.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	developers, err := s.metaRepo.ListDevelopers(ctx)
	if err != nil {
		return nil, err
	}
	publishers, err := s.metaRepo.ListPublishers(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Metadata{
		Genres:     genres,
		Platforms:  platforms,
		Developers: developers,
		Publishers: publishers,
	}, nil
}

// InvalidateCatalog drops the cached catalog
func (s *CatalogService) InvalidateCatalog(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, catalogCacheKey)
}

// loadCatalog returns the full catalog, from cache when warm
func (s *CatalogService) loadCatalog(ctx context.Context) ([]*model.Game, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, catalogCacheKey); err == nil {
			var games []*model.Game
			if err := json.Unmarshal(data, &games); err == nil {
				return games, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("catalog cache read failed", slog.Any("error", err))
		}
	}

	games, err := s.gameRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(games); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, data, s.cacheTTL); err != nil {
				slog.Warn("catalog cache write failed", slog.Any("error", err))
			}
		}
	}

	return games, nil
}
