// internal/domain/cart/entity.go
package cart

import (
	"context"
	"time"

	"github.com/your-org/fireplay-backend/internal/domain/catalog"
)

// Entry is a game queued for purchase. There is no quantity: a game is
// either in the cart once or not at all.
type Entry struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	BackgroundImage string    `json:"background_image"`
	Price           int       `json:"price"`
	AddedAt         time.Time `json:"added_at"`
}

// NewEntry snapshots a catalog item with the price it was given on add
func NewEntry(item catalog.Item, price int, now time.Time) Entry {
	return Entry{
		ID:              item.ID,
		Name:            item.Name,
		Slug:            item.Slug,
		BackgroundImage: item.BackgroundImage,
		Price:           price,
		AddedAt:         now.UTC(),
	}
}

// ComputeTotal sums the stored prices of the entries
func ComputeTotal(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Price
	}
	return total
}

// IDs returns the item ids of the entries in order
func IDs(entries []Entry) []int {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// Repository persists a user's cart
type Repository interface {
	ListCart(ctx context.Context, userID string) ([]Entry, error)
	PutCartEntry(ctx context.Context, userID string, entry Entry) error
	DeleteCartEntry(ctx context.Context, userID string, itemID int) error
}
