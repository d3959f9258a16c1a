// internal/infrastructure/database/firestore/store.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/store"
	"github.com/your-org/fireplay-backend/internal/domain/user"
)

var _ store.UserStore = (*Store)(nil)

// Store keeps per-user documents under users/{uid}:
//
//	users/{uid}                  profile
//	users/{uid}/favorites/{id}   favorite snapshot
//	users/{uid}/cart/{id}        cart entry
//	users/{uid}/orders/{auto}    order
type Store struct {
	client *firestore.Client
}

// NewStore creates a store on a Firestore client
func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) userDoc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid)
}

func (s *Store) favorites(uid string) *firestore.CollectionRef {
	return s.userDoc(uid).Collection("favorites")
}

func (s *Store) cart(uid string) *firestore.CollectionRef {
	return s.userDoc(uid).Collection("cart")
}

func (s *Store) orders(uid string) *firestore.CollectionRef {
	return s.userDoc(uid).Collection("orders")
}

func itemDocID(itemID int) string {
	return strconv.Itoa(itemID)
}

// docItemID prefers the stored id field and falls back to the document id
func docItemID(stored int, docID string) int {
	if stored != 0 {
		return stored
	}
	id, _ := strconv.Atoi(docID)
	return id
}

// Ping tries a cheap read
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.Collections(ctx).Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

// Close closes the Firestore client
func (s *Store) Close() error {
	return s.client.Close()
}

// ListFavorites returns the user's favorites ordered by item id
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]favorite.Entry, error) {
	iter := s.favorites(userID).Documents(ctx)
	defer iter.Stop()

	var entries []favorite.Entry
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list favorites: %w", err)
		}

		var doc favoriteDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode favorite %s: %w", snap.Ref.ID, err)
		}
		e := doc.toDomain()
		e.ID = docItemID(doc.ID, snap.Ref.ID)
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// PutFavorite writes the favorite document, replacing any previous one
func (s *Store) PutFavorite(ctx context.Context, userID string, entry favorite.Entry) error {
	if _, err := s.favorites(userID).Doc(itemDocID(entry.ID)).Set(ctx, favoriteDocFromDomain(entry)); err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// DeleteFavorite deletes the favorite document
func (s *Store) DeleteFavorite(ctx context.Context, userID string, itemID int) error {
	if _, err := s.favorites(userID).Doc(itemDocID(itemID)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// ListCart returns the user's cart ordered by item id
func (s *Store) ListCart(ctx context.Context, userID string) ([]cart.Entry, error) {
	iter := s.cart(userID).Documents(ctx)
	defer iter.Stop()

	var entries []cart.Entry
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list cart: %w", err)
		}

		var doc cartDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode cart entry %s: %w", snap.Ref.ID, err)
		}
		e := doc.toDomain()
		e.ID = docItemID(doc.ID, snap.Ref.ID)
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// PutCartEntry writes the cart document, replacing any previous one
func (s *Store) PutCartEntry(ctx context.Context, userID string, entry cart.Entry) error {
	if _, err := s.cart(userID).Doc(itemDocID(entry.ID)).Set(ctx, cartDocFromDomain(entry)); err != nil {
		return fmt.Errorf("failed to save cart entry: %w", err)
	}
	return nil
}

// DeleteCartEntry deletes the cart document
func (s *Store) DeleteCartEntry(ctx context.Context, userID string, itemID int) error {
	if _, err := s.cart(userID).Doc(itemDocID(itemID)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete cart entry: %w", err)
	}
	return nil
}

// PlaceOrder creates the order document and deletes the ordered cart
// documents in one transaction
func (s *Store) PlaceOrder(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	ref := s.orders(o.UserID).NewDoc()
	if o.ID != "" {
		ref = s.orders(o.UserID).Doc(o.ID)
	}
	doc := orderDocFromDomain(o)
	doc.Date = time.Time{}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(ref, doc); err != nil {
			return err
		}
		for _, id := range o.ItemIDs() {
			if err := tx.Delete(s.cart(o.UserID).Doc(itemDocID(id))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	o.ID = ref.ID

	// read back the date the server assigned
	snap, err := ref.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read placed order %s: %w", ref.ID, err)
	}
	var placed orderDoc
	if err := snap.DataTo(&placed); err != nil {
		return fmt.Errorf("failed to decode order %s: %w", ref.ID, err)
	}
	o.Date = placed.Date
	return nil
}

// ListOrders returns the user's orders, newest first
func (s *Store) ListOrders(ctx context.Context, userID string) ([]order.Order, error) {
	iter := s.orders(userID).OrderBy("date", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var orders []order.Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}

		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order %s: %w", snap.Ref.ID, err)
		}
		orders = append(orders, doc.toDomain(snap.Ref.ID, userID))
	}
	return orders, nil
}

// GetOrder returns one order of the user
func (s *Store) GetOrder(ctx context.Context, userID, orderID string) (*order.Order, error) {
	snap, err := s.orders(userID).Doc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", orderID, err)
	}
	o := doc.toDomain(snap.Ref.ID, userID)
	return &o, nil
}

// GetProfile returns the profile document
func (s *Store) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	snap, err := s.userDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, user.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return doc.toDomain(userID), nil
}

// PutProfile overwrites the profile document
func (s *Store) PutProfile(ctx context.Context, p *user.Profile) error {
	if _, err := s.userDoc(p.UserID).Set(ctx, profileDocFromDomain(p)); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
