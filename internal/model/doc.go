// Package model defines the domain entities for the GameFlow API.
//
// Entities fall into three ownership classes:
//
//   - Game and Reference (genre, platform, developer, publisher) are
//     shared, read-only catalog data, cached per process.
//   - LibraryEntry and Profile are scoped to exactly one user and are
//     only ever read or written under that user's authenticated identity.
//   - User and TokenClaims are the session projection: the rest of the
//     application reads only "who is this" off them.
//
// Optional fields (a library entry's progress and rating, a game's
// release date and aggregate rating) are modeled as pointers rather than
// zero values so that "absent" and "zero" stay distinguishable.
//
// The package also defines RFC 9457 Problem Details types used for all
// API error responses.
package model
