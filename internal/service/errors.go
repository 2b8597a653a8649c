package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrNotAuthenticated   = errors.New("authentication required")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Catalog Errors =====
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidSort   = errors.New("invalid sort key")
	ErrInvalidWindow = errors.New("invalid window size")
)

// ===== Library Errors =====
var (
	ErrEntryNotFound   = errors.New("library entry not found")
	ErrEntryNotOwned   = errors.New("library entry belongs to another user")
	ErrGameAlreadyHeld = errors.New("game already in library")
	ErrInvalidStatus   = errors.New("invalid library status")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrNotesTooLong    = errors.New("notes exceed maximum length")
	ErrEmptyUpdate     = errors.New("no fields to update")
)

// ===== Profile Errors =====
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrDisplayNameTooLong = errors.New("display name exceeds maximum length")
	ErrBioTooLong         = errors.New("bio exceeds maximum length")
	ErrAvatarUnsupported  = errors.New("unsupported avatar image type")
	ErrAvatarTooLarge     = errors.New("avatar image too large")
)
