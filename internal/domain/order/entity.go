// internal/domain/order/entity.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/fireplay-backend/internal/domain/cart"
)

var (
	// ErrNotFound is returned when an order does not exist for the user
	ErrNotFound = errors.New("order: not found")
	// ErrEmpty is returned when an order would have no items
	ErrEmpty = errors.New("order: no items")
	// ErrTotalMismatch is returned when the total is not the sum of the item prices
	ErrTotalMismatch = errors.New("order: total does not match items")
)

// Order is the immutable record of a completed checkout
type Order struct {
	ID     string       `json:"id"`
	UserID string       `json:"user_id"`
	Items  []cart.Entry `json:"items"`
	Total  int          `json:"total"`
	Date   time.Time    `json:"date"`
}

// New builds an order from a snapshot of cart entries
func New(userID string, items []cart.Entry, date time.Time) *Order {
	snapshot := make([]cart.Entry, len(items))
	copy(snapshot, items)

	return &Order{
		UserID: userID,
		Items:  snapshot,
		Total:  cart.ComputeTotal(snapshot),
		Date:   date.UTC(),
	}
}

// Validate checks the order before it is persisted
func (o *Order) Validate() error {
	if o.UserID == "" {
		return fmt.Errorf("order: user id is required")
	}
	if len(o.Items) == 0 {
		return ErrEmpty
	}
	if sum := cart.ComputeTotal(o.Items); sum != o.Total {
		return fmt.Errorf("%w: total %d, items sum %d", ErrTotalMismatch, o.Total, sum)
	}
	return nil
}

// ItemIDs returns the ids of the ordered games
func (o *Order) ItemIDs() []int {
	return cart.IDs(o.Items)
}

// Repository persists orders.
//
// PlaceOrder writes the order and removes the user's cart entries for every
// ordered item in one atomic write: either both happen or neither does.
// It assigns o.ID when empty.
type Repository interface {
	PlaceOrder(ctx context.Context, o *Order) error
	ListOrders(ctx context.Context, userID string) ([]Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*Order, error)
}
