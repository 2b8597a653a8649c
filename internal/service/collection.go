package service

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gameflow/api/internal/model"
)

// Window sizing for incremental reveal. Clients start with DefaultWindow
// entries and grow by WindowStep as the user scrolls.
const (
	DefaultWindow = 12
	WindowStep    = 12
)

// SortKey identifies a catalog ordering
type SortKey string

const (
	SortTitleAZ    SortKey = "az"
	SortTitleZA    SortKey = "za"
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortRatingHigh SortKey = "rating-high"
	SortRatingLow  SortKey = "rating-low"
)

// IsValid reports whether the sort key is recognized
func (k SortKey) IsValid() bool {
	switch k {
	case SortTitleAZ, SortTitleZA, SortNewest, SortOldest, SortRatingHigh, SortRatingLow:
		return true
	}
	return false
}

// Filter holds the predicate set applied to the catalog. Zero-value
// fields are unset and pass every game; set fields are ANDed together.
type Filter struct {
	Search    string
	Genres    []string
	Platforms []string
	Developer string
	Publisher string
}

// IsEmpty reports whether no predicate is set
func (f Filter) IsEmpty() bool {
	return f.Search == "" && len(f.Genres) == 0 && len(f.Platforms) == 0 &&
		f.Developer == "" && f.Publisher == ""
}

// CollectionView computes filtered, sorted, windowed projections of the
// game catalog. It holds no state of its own; every call works on the
// slice the caller passes in and never mutates it.
type CollectionView struct {
	collator *collate.Collator
}

// NewCollectionView creates a collection view engine
func NewCollectionView() *CollectionView {
	return &CollectionView{
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// Apply filters and sorts the catalog. The result is a new slice; the
// input order is left untouched.
func (v *CollectionView) Apply(games []*model.Game, filter Filter, key SortKey) []*model.Game {
	matched := make([]*model.Game, 0, len(games))
	for _, game := range games {
		if game == nil {
			continue
		}
		if v.matches(game, filter) {
			matched = append(matched, game)
		}
	}

	v.sortGames(matched, key)
	return matched
}

// Page slices a visible window off the front of the filtered list and
// reports whether more entries remain beyond it.
func Page(games []*model.Game, visible int) ([]*model.Game, bool) {
	if visible <= 0 {
		visible = DefaultWindow
	}
	if visible >= len(games) {
		return games, false
	}
	return games[:visible], true
}

// NextWindow grows a window by one step, capped at the list size
func NextWindow(visible, total int) int {
	next := visible + WindowStep
	if next > total {
		next = total
	}
	return next
}

func (v *CollectionView) matches(game *model.Game, f Filter) bool {
	if f.Search != "" {
		if !strings.Contains(strings.ToLower(game.Title), strings.ToLower(f.Search)) {
			return false
		}
	}

	if len(f.Genres) > 0 && !containsAnyName(game.Genres, f.Genres) {
		return false
	}
	if len(f.Platforms) > 0 && !containsAnyName(game.Platforms, f.Platforms) {
		return false
	}

	if f.Developer != "" {
		if game.Developer == nil || game.Developer.Name != f.Developer {
			return false
		}
	}
	if f.Publisher != "" {
		if game.Publisher == nil || game.Publisher.Name != f.Publisher {
			return false
		}
	}

	return true
}

// containsAnyName checks whether any of the game's references matches one
// of the wanted display names. Names are the exact strings the metadata
// vocabulary serves, so equality is case-sensitive.
func containsAnyName(refs []model.Reference, wanted []string) bool {
	for _, ref := range refs {
		for _, name := range wanted {
			if ref.Name == name {
				return true
			}
		}
	}
	return false
}

// sortGames orders the filtered list in place. An unset key leaves the
// filtered order untouched.
func (v *CollectionView) sortGames(games []*model.Game, key SortKey) {
	switch key {
	case SortTitleAZ:
		sort.SliceStable(games, func(i, j int) bool {
			return v.collator.CompareString(games[i].Title, games[j].Title) < 0
		})
	case SortTitleZA:
		sort.SliceStable(games, func(i, j int) bool {
			return v.collator.CompareString(games[i].Title, games[j].Title) > 0
		})
	case SortNewest:
		sort.SliceStable(games, func(i, j int) bool {
			return releaseOrZero(games[i]).After(releaseOrZero(games[j]))
		})
	case SortOldest:
		sort.SliceStable(games, func(i, j int) bool {
			return releaseOrZero(games[i]).Before(releaseOrZero(games[j]))
		})
	case SortRatingHigh:
		sort.SliceStable(games, func(i, j int) bool {
			return ratingOrZero(games[i]) > ratingOrZero(games[j])
		})
	case SortRatingLow:
		sort.SliceStable(games, func(i, j int) bool {
			return ratingOrZero(games[i]) < ratingOrZero(games[j])
		})
	}
}

// releaseOrZero treats games without a release date as released at the
// epoch, sinking them to the bottom of "newest"
func releaseOrZero(g *model.Game) time.Time {
	if g.ReleaseDate == nil {
		return time.Time{}
	}
	return *g.ReleaseDate
}

// ratingOrZero treats unrated games as rated zero
func ratingOrZero(g *model.Game) float64 {
	if g.AverageRating == nil {
		return 0
	}
	return *g.AverageRating
}
