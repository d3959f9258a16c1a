// internal/infrastructure/database/postgres/store.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/store"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ store.UserStore = (*Store)(nil)

// Store is the UserStore backed by a SQL database through gorm
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on an open database
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListFavorites returns the user's favorites ordered by item id
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]favorite.Entry, error) {
	var records []FavoriteRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("item_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	entries := make([]favorite.Entry, len(records))
	for i, r := range records {
		entries[i] = r.toDomain()
	}
	return entries, nil
}

// PutFavorite inserts or replaces a favorite
func (s *Store) PutFavorite(ctx context.Context, userID string, entry favorite.Entry) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(favoriteRecord(userID, entry)).Error
	if err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// DeleteFavorite removes a favorite
func (s *Store) DeleteFavorite(ctx context.Context, userID string, itemID int) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&FavoriteRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// ListCart returns the user's cart ordered by item id
func (s *Store) ListCart(ctx context.Context, userID string) ([]cart.Entry, error) {
	var records []CartEntryRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("item_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	entries := make([]cart.Entry, len(records))
	for i, r := range records {
		entries[i] = r.toDomain()
	}
	return entries, nil
}

// PutCartEntry inserts or replaces a cart entry
func (s *Store) PutCartEntry(ctx context.Context, userID string, entry cart.Entry) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(cartEntryRecord(userID, entry)).Error
	if err != nil {
		return fmt.Errorf("failed to save cart entry: %w", err)
	}
	return nil
}

// DeleteCartEntry removes a cart entry
func (s *Store) DeleteCartEntry(ctx context.Context, userID string, itemID int) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&CartEntryRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart entry: %w", err)
	}
	return nil
}

// PlaceOrder inserts the order with its items and deletes the ordered cart
// entries in one transaction
func (s *Store) PlaceOrder(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	rec := orderRecord(o)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Where("user_id = ? AND item_id IN ?", o.UserID, o.ItemIDs()).
			Delete(&CartEntryRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		o.ID = ""
		return err
	}
	return nil
}

// ListOrders returns the user's orders, newest first
func (s *Store) ListOrders(ctx context.Context, userID string) ([]order.Order, error) {
	var records []OrderRecord
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]order.Order, len(records))
	for i, r := range records {
		orders[i] = r.toDomain()
	}
	return orders, nil
}

// GetOrder returns one order of the user
func (s *Store) GetOrder(ctx context.Context, userID, orderID string) (*order.Order, error) {
	var rec OrderRecord
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	o := rec.toDomain()
	return &o, nil
}

// GetProfile returns the user's profile
func (s *Store) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	var rec ProfileRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return rec.toDomain(), nil
}

// PutProfile inserts or replaces the user's profile
func (s *Store) PutProfile(ctx context.Context, p *user.Profile) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(profileRecord(p)).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
