package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/internal/service"
)

// GamesHandler handles catalog browse endpoints
type GamesHandler struct {
	catalogService *service.CatalogService
}

// NewGamesHandler creates a new games handler
func NewGamesHandler(catalogService *service.CatalogService) *GamesHandler {
	return &GamesHandler{
		catalogService: catalogService,
	}
}

// List handles GET /v1/games
//
// Query parameters:
//
//	search    - case-insensitive title substring
//	genre     - repeatable; game matches any selected genre
//	platform  - repeatable; game matches any selected platform
//	developer - exact developer name
//	publisher - exact publisher name
//	sort      - az | za | newest | oldest | rating-high | rating-low
//	visible   - window size, grows by steps as the client reveals more
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := service.Filter{
		Search:    strings.TrimSpace(query.Get("search")),
		Genres:    query["genre"],
		Platforms: query["platform"],
		Developer: strings.TrimSpace(query.Get("developer")),
		Publisher: strings.TrimSpace(query.Get("publisher")),
	}

	visible := 0
	if raw := query.Get("visible"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, model.NewBadRequestError("visible must be an integer"))
			return
		}
		visible = parsed
	}

	result, err := h.catalogService.Browse(r.Context(), filter, service.SortKey(query.Get("sort")), visible)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, result.Games, &WindowInfo{
		Visible: result.Visible,
		Total:   result.Total,
		HasMore: result.HasMore,
	}, map[string]string{
		"self": "/v1/games",
	})
}

// Get handles GET /v1/games/{id}
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("game ID required"))
		return
	}

	game, err := h.catalogService.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, game, nil)
}

// GetBySlug handles GET /v1/games/slug/{slug}
func (h *GamesHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		WriteError(w, model.NewBadRequestError("game slug required"))
		return
	}

	game, err := h.catalogService.GetBySlug(r.Context(), slug)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, game, nil)
}

// Newest handles GET /v1/games/newest
func (h *GamesHandler) Newest(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalogService.Newest(r.Context(), parseLimit(r))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, games, nil)
}

// TopRated handles GET /v1/games/top-rated
func (h *GamesHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalogService.TopRated(r.Context(), parseLimit(r))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, games, nil)
}

// Trending handles GET /v1/games/trending
func (h *GamesHandler) Trending(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalogService.Trending(r.Context(), parseLimit(r))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, games, nil)
}

// Metadata handles GET /v1/games/metadata
func (h *GamesHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.catalogService.Metadata(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, meta, nil)
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
