// Package middleware provides HTTP middleware for the GameFlow API.
//
// The middleware package contains reusable middleware components for
// authentication, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - OptionalAuth: like Auth but anonymous requests pass through
//   - RateLimit: request rate limiting per user/IP
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information.
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// Catalog routes use OptionalAuth so the browse surface stays public while
// authenticated requests are still rate limited by user instead of by IP.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): authenticated user ID
//   - GetUserEmail(ctx): authenticated user email
//   - GetRequestID(ctx): unique request identifier
package middleware
