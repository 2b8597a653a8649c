// Package repository implements SurrealDB data access for the GameFlow API.
//
// Each repository wraps the database interface with typed operations for one
// table. Record ids use SurrealDB's table:id form throughout; queries bind
// them with type::record() and expand links with FETCH where callers need
// the joined records.
package repository
