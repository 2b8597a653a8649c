package model

import "time"

// Reference is a named record link: a genre, platform, developer or
// publisher attached to a game.
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game represents one catalog entry with its metadata links expanded.
type Game struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	CoverURL      *string     `json:"cover_url,omitempty"`
	Description   *string     `json:"description,omitempty"`
	ReleaseDate   *time.Time  `json:"release_date,omitempty"`
	AverageRating *float64    `json:"average_rating,omitempty"`
	Genres        []Reference `json:"genres,omitempty"`
	Platforms     []Reference `json:"platforms,omitempty"`
	Developer     *Reference  `json:"developer,omitempty"`
	Publisher     *Reference  `json:"publisher,omitempty"`
	CreatedOn     time.Time   `json:"created_on"`
}

// GameSummary is the slice of a game that library entries carry around.
type GameSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	Description *string    `json:"description,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

// Summary projects a game down to its library-facing fields
func (g *Game) Summary() *GameSummary {
	return &GameSummary{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		CoverURL:    g.CoverURL,
		Description: g.Description,
		ReleaseDate: g.ReleaseDate,
	}
}

// Metadata is the filter vocabulary for the catalog browse surface.
type Metadata struct {
	Genres     []Reference `json:"genres"`
	Platforms  []Reference `json:"platforms"`
	Developers []Reference `json:"developers"`
	Publishers []Reference `json:"publishers"`
}
