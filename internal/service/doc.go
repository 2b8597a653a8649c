// Package service implements the business logic of the GameFlow API.
//
// Services sit between handlers and repositories. They own validation and
// the error vocabulary handlers map to HTTP responses (see errors.go), and
// depend on repository interfaces defined here so tests can substitute
// in-memory fakes.
//
// The catalog service keeps the full game list cached and delegates
// filtering, sorting and windowing to the collection view engine. The
// library service verifies the caller's identity on every write and
// broadcasts each change through the LibraryHub so a user's other open
// sessions converge without polling.
package service
