// internal/domain/store/store.go
package store

import (
	"context"

	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/user"
)

// UserStore holds every per-user document: favorites, cart, orders and profile
type UserStore interface {
	favorite.Repository
	cart.Repository
	order.Repository
	user.Repository

	Ping(ctx context.Context) error
	Close() error
}
