package handler

import (
	"net/http"

	"github.com/gameflow/api/internal/middleware"
	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/internal/service"
	"github.com/gameflow/api/internal/storage"
)

// ProfileHandler handles user profile endpoints
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

// Get handles GET /v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get profile"))
		return
	}

	WriteData(w, http.StatusOK, profile, map[string]string{
		"self":   "/v1/profile",
		"avatar": "/v1/profile/avatar",
	})
}

// Update handles PATCH /v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, service.UpdateRequest{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, profile, nil)
}

// UploadAvatar handles POST /v1/profile/avatar
//
// Accepts a multipart form with a single "avatar" file part. The stored
// image replaces the previous avatar.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(storage.MaxAvatarSize); err != nil {
		WriteError(w, model.NewBadRequestError("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "avatar", Message: "avatar file is required"},
		}))
		return
	}
	defer file.Close()

	profile, err := h.profileService.UploadAvatar(r.Context(), userID, header.Header.Get("Content-Type"), file)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, profile, nil)
}
