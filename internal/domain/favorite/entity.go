// internal/domain/favorite/entity.go
package favorite

import (
	"context"
	"time"

	"github.com/your-org/fireplay-backend/internal/domain/catalog"
)

// Entry is a bookmarked game. Its fields are a snapshot of the catalog item
// taken when it was favorited and are never refreshed.
type Entry struct {
	ID              int                `json:"id"`
	Name            string             `json:"name"`
	Slug            string             `json:"slug"`
	BackgroundImage string             `json:"background_image"`
	Rating          float64            `json:"rating"`
	Genres          []catalog.GenreRef `json:"genres"`
	AddedAt         time.Time          `json:"added_at"`
}

// FromItem snapshots a catalog item into a favorite entry
func FromItem(item catalog.Item, now time.Time) Entry {
	genres := make([]catalog.GenreRef, len(item.Genres))
	copy(genres, item.Genres)

	return Entry{
		ID:              item.ID,
		Name:            item.Name,
		Slug:            item.Slug,
		BackgroundImage: item.BackgroundImage,
		Rating:          item.Rating,
		Genres:          genres,
		AddedAt:         now.UTC(),
	}
}

// Displayable reports whether the entry can be linked to a detail page.
// Entries written without a slug are hidden from listings.
func (e Entry) Displayable() bool {
	return e.Slug != ""
}

// Repository persists a user's favorites
type Repository interface {
	ListFavorites(ctx context.Context, userID string) ([]Entry, error)
	PutFavorite(ctx context.Context, userID string, entry Entry) error
	DeleteFavorite(ctx context.Context, userID string, itemID int) error
}
