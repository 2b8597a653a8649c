package handler

import (
	"errors"

	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Authentication Errors → 401 =====
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("invalid email or password")
	case errors.Is(err, service.ErrNotAuthenticated):
		return model.NewUnauthorizedError("authentication required")
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return model.NewUnauthorizedError("invalid or expired refresh token")

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrEntryNotOwned):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrGameNotFound):
		return model.NewNotFoundError("game")
	case errors.Is(err, service.ErrEntryNotFound):
		return model.NewNotFoundError("library entry")
	case errors.Is(err, service.ErrProfileNotFound):
		return model.NewNotFoundError("profile")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError("email already registered")
	case errors.Is(err, service.ErrGameAlreadyHeld):
		return model.NewConflictError("game is already in the library")

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidEmail):
		return model.NewValidationError([]model.FieldError{{Field: "email", Message: err.Error()}})
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "password", Message: err.Error()}})

	case errors.Is(err, service.ErrInvalidStatus):
		return model.NewValidationError([]model.FieldError{{Field: "status", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidProgress):
		return model.NewValidationError([]model.FieldError{{Field: "progress", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidRating):
		return model.NewValidationError([]model.FieldError{{Field: "rating", Message: err.Error()}})
	case errors.Is(err, service.ErrNotesTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "notes", Message: err.Error()}})
	case errors.Is(err, service.ErrEmptyUpdate):
		return model.NewValidationError([]model.FieldError{{Field: "update", Message: err.Error()}})

	case errors.Is(err, service.ErrDisplayNameTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "display_name", Message: err.Error()}})
	case errors.Is(err, service.ErrBioTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "bio", Message: err.Error()}})
	case errors.Is(err, service.ErrAvatarUnsupported):
		return model.NewValidationError([]model.FieldError{{Field: "avatar", Message: err.Error()}})
	case errors.Is(err, service.ErrAvatarTooLarge):
		return model.NewValidationError([]model.FieldError{{Field: "avatar", Message: err.Error()}})

	// ===== Bad Request Errors → 400 =====
	case errors.Is(err, service.ErrInvalidSort),
		errors.Is(err, service.ErrInvalidWindow):
		return model.NewBadRequestError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails
// response with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
