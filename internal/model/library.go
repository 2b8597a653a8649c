package model

import "time"

// LibraryStatus tracks where a game sits in a user's library.
type LibraryStatus string

const (
	StatusWishlist  LibraryStatus = "wishlist"
	StatusPlaying   LibraryStatus = "playing"
	StatusCompleted LibraryStatus = "completed"
)

// IsValid reports whether the status is one of the known values
func (s LibraryStatus) IsValid() bool {
	switch s {
	case StatusWishlist, StatusPlaying, StatusCompleted:
		return true
	}
	return false
}

// Library entry field constraints enforced at the service layer.
const (
	MinProgress = 0
	MaxProgress = 100
	MinRating   = 1
	MaxRating   = 5
	MaxNotesLen = 2000
)

// LibraryEntry represents one game in a user's library. Game carries the
// joined summary when the entry was read with its game link expanded.
type LibraryEntry struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	GameID   string        `json:"game_id"`
	Status   LibraryStatus `json:"status"`
	Progress *int          `json:"progress,omitempty"`
	Rating   *int          `json:"rating,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	AddedOn  time.Time     `json:"added_on"`
	Game     *GameSummary  `json:"game,omitempty"`
}

// LibraryUpdate holds partial field changes for an entry. Nil fields are
// left untouched by the update.
type LibraryUpdate struct {
	Status   *LibraryStatus `json:"status,omitempty"`
	Progress *int           `json:"progress,omitempty"`
	Rating   *int           `json:"rating,omitempty"`
	Notes    *string        `json:"notes,omitempty"`
}

// IsEmpty reports whether no field is set
func (u *LibraryUpdate) IsEmpty() bool {
	return u.Status == nil && u.Progress == nil && u.Rating == nil && u.Notes == nil
}
