package handler

import (
	"net/http"

	"github.com/gameflow/api/internal/middleware"
	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/internal/service"
)

// LibraryHandler handles per-user library endpoints
type LibraryHandler struct {
	libraryService *service.LibraryService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(libraryService *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{
		libraryService: libraryService,
	}
}

// AddEntryRequest represents the add-to-library request body
type AddEntryRequest struct {
	GameID   string `json:"game_id"`
	Status   string `json:"status,omitempty"`
	Progress *int   `json:"progress,omitempty"`
	Rating   *int   `json:"rating,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// UpdateEntryRequest represents the partial-update request body
type UpdateEntryRequest struct {
	Status   *string `json:"status,omitempty"`
	Progress *int    `json:"progress,omitempty"`
	Rating   *int    `json:"rating,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// List handles GET /v1/library
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.libraryService.List(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list library"))
		return
	}

	WriteData(w, http.StatusOK, entries, map[string]string{
		"self": "/v1/library",
	})
}

// Add handles POST /v1/library
func (h *LibraryHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req AddEntryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if req.GameID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "game_id", Message: "game_id is required"},
		}))
		return
	}

	entry, err := h.libraryService.Add(r.Context(), userID, service.AddRequest{
		GameID:   req.GameID,
		Status:   model.LibraryStatus(req.Status),
		Progress: clampInt(req.Progress, model.MinProgress, model.MaxProgress),
		Rating:   clampInt(req.Rating, model.MinRating, model.MaxRating),
		Notes:    req.Notes,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, entry, map[string]string{
		"self": "/v1/library/" + entry.ID,
	})
}

// Update handles PATCH /v1/library/{id}
func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID := r.PathValue("id")
	if entryID == "" {
		WriteError(w, model.NewBadRequestError("entry ID required"))
		return
	}

	var req UpdateEntryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	update := &model.LibraryUpdate{
		Progress: clampInt(req.Progress, model.MinProgress, model.MaxProgress),
		Rating:   clampInt(req.Rating, model.MinRating, model.MaxRating),
		Notes:    req.Notes,
	}
	if req.Status != nil {
		status := model.LibraryStatus(*req.Status)
		update.Status = &status
	}

	entry, err := h.libraryService.Update(r.Context(), userID, entryID, update)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, entry, nil)
}

// Remove handles DELETE /v1/library/{id}
func (h *LibraryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID := r.PathValue("id")
	if entryID == "" {
		WriteError(w, model.NewBadRequestError("entry ID required"))
		return
	}

	if err := h.libraryService.Remove(r.Context(), userID, entryID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// GetForGame handles GET /v1/library/game/{gameId}
func (h *LibraryHandler) GetForGame(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	gameID := r.PathValue("gameId")
	if gameID == "" {
		WriteError(w, model.NewBadRequestError("game ID required"))
		return
	}

	entry, err := h.libraryService.GetForGame(r.Context(), userID, gameID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get library entry"))
		return
	}
	if entry == nil {
		WriteError(w, model.NewNotFoundError("library entry"))
		return
	}

	WriteData(w, http.StatusOK, entry, nil)
}

// RemoveByGame handles DELETE /v1/library/game/{gameId}
func (h *LibraryHandler) RemoveByGame(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	gameID := r.PathValue("gameId")
	if gameID == "" {
		WriteError(w, model.NewBadRequestError("game ID required"))
		return
	}

	if err := h.libraryService.RemoveByGame(r.Context(), userID, gameID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// clampInt forces a numeric field into its valid range before the service
// sees it. The service trusts handler-validated input.
func clampInt(v *int, min, max int) *int {
	if v == nil {
		return nil
	}
	clamped := *v
	if clamped < min {
		clamped = min
	}
	if clamped > max {
		clamped = max
	}
	return &clamped
}
