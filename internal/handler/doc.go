// Package handler provides HTTP request handlers for the GameFlow API.
//
// Each handler struct encapsulates the service it fronts (catalog,
// library, auth, profile, events) and translates between HTTP and the
// service layer.
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the service dependency
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Service errors are mapped to RFC 9457 Problem Details via MapServiceError
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: Windowed list of resources
//   - WriteJSON: Raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Authenticated handlers read the user ID off the request context, where
// the auth middleware put it after validating the bearer token.
package handler
