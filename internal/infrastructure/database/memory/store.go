// internal/infrastructure/database/memory/store.go
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/store"
	"github.com/your-org/fireplay-backend/internal/domain/user"
)

var _ store.UserStore = (*Store)(nil)

// Store is an in-memory UserStore for tests and local development
type Store struct {
	mu        sync.RWMutex
	favorites map[string]map[int]favorite.Entry
	carts     map[string]map[int]cart.Entry
	orders    map[string]map[string]order.Order
	profiles  map[string]user.Profile
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		favorites: make(map[string]map[int]favorite.Entry),
		carts:     make(map[string]map[int]cart.Entry),
		orders:    make(map[string]map[string]order.Order),
		profiles:  make(map[string]user.Profile),
	}
}

// Ping implements store.UserStore
func (s *Store) Ping(context.Context) error { return nil }

// Close implements store.UserStore
func (s *Store) Close() error { return nil }

// ListFavorites returns the user's favorites ordered by id
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]favorite.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]favorite.Entry, 0, len(s.favorites[userID]))
	for _, e := range s.favorites[userID] {
		entries = append(entries, cloneFavorite(e))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// PutFavorite writes a favorite, replacing one with the same id
func (s *Store) PutFavorite(ctx context.Context, userID string, entry favorite.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.favorites[userID] == nil {
		s.favorites[userID] = make(map[int]favorite.Entry)
	}
	s.favorites[userID][entry.ID] = cloneFavorite(entry)
	return nil
}

// DeleteFavorite removes a favorite; deleting a missing one succeeds
func (s *Store) DeleteFavorite(ctx context.Context, userID string, itemID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.favorites[userID], itemID)
	return nil
}

// ListCart returns the user's cart ordered by id
func (s *Store) ListCart(ctx context.Context, userID string) ([]cart.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cart.Entry, 0, len(s.carts[userID]))
	for _, e := range s.carts[userID] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// PutCartEntry writes a cart entry, replacing one with the same id
func (s *Store) PutCartEntry(ctx context.Context, userID string, entry cart.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.carts[userID] == nil {
		s.carts[userID] = make(map[int]cart.Entry)
	}
	s.carts[userID][entry.ID] = entry
	return nil
}

// DeleteCartEntry removes a cart entry; deleting a missing one succeeds
func (s *Store) DeleteCartEntry(ctx context.Context, userID string, itemID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts[userID], itemID)
	return nil
}

// PlaceOrder stores the order and drops the ordered cart entries under one lock
func (s *Store) PlaceOrder(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if s.orders[o.UserID] == nil {
		s.orders[o.UserID] = make(map[string]order.Order)
	}
	s.orders[o.UserID][o.ID] = cloneOrder(*o)
	for _, id := range o.ItemIDs() {
		delete(s.carts[o.UserID], id)
	}
	return nil
}

// ListOrders returns the user's orders, newest first
func (s *Store) ListOrders(ctx context.Context, userID string) ([]order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]order.Order, 0, len(s.orders[userID]))
	for _, o := range s.orders[userID] {
		orders = append(orders, cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Date.After(orders[j].Date) })
	return orders, nil
}

// GetOrder returns one order of the user
func (s *Store) GetOrder(ctx context.Context, userID, orderID string) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[userID][orderID]
	if !ok {
		return nil, order.ErrNotFound
	}
	clone := cloneOrder(o)
	return &clone, nil
}

// GetProfile returns the user's profile
func (s *Store) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, user.ErrProfileNotFound
	}
	return &p, nil
}

// PutProfile overwrites the user's profile
func (s *Store) PutProfile(ctx context.Context, p *user.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.UserID] = *p
	return nil
}

func cloneFavorite(e favorite.Entry) favorite.Entry {
	e.Genres = append(e.Genres[:0:0], e.Genres...)
	return e
}

func cloneOrder(o order.Order) order.Order {
	o.Items = append(o.Items[:0:0], o.Items...)
	return o
}
