// internal/domain/collection/controller.go
package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/domain/session"
)

// Kind names one of the per-user collections
type Kind string

const (
	Favorites Kind = "favorites"
	Cart      Kind = "cart"
)

// ErrUnknownKind is returned for a collection name other than favorites or cart
var ErrUnknownKind = errors.New("collection: unknown collection")

// ParseKind validates a collection name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Favorites, Cart:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Result describes the outcome of a toggle
type Result struct {
	Kind   Kind `json:"collection"`
	ItemID int  `json:"id"`
	Member bool `json:"member"`
	// Price is set when a game was added to the cart
	Price int `json:"price,omitempty"`
}

// Controller keeps the membership of games in a user's favorites and cart,
// mirroring the stored collections in local id sets
type Controller struct {
	sess      *session.Session
	favorites favorite.Repository
	carts     cart.Repository
	pricing   cart.PricePolicy
	now       func() time.Time
	log       logrus.FieldLogger

	mu     sync.Mutex
	ids    map[Kind]map[int]struct{}
	loaded bool

	unsubscribe func()
}

// Option configures a Controller
type Option func(*Controller)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller bound to a session. The id sets are
// loaded when the session signs in and cleared when it signs out.
func NewController(sess *session.Session, favorites favorite.Repository, carts cart.Repository, pricing cart.PricePolicy, log logrus.FieldLogger, opts ...Option) *Controller {
	c := &Controller{
		sess:      sess,
		favorites: favorites,
		carts:     carts,
		pricing:   pricing,
		now:       time.Now,
		log:       log,
		ids:       emptySets(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.unsubscribe = sess.Subscribe(c.onSessionEvent)
	return c
}

func emptySets() map[Kind]map[int]struct{} {
	return map[Kind]map[int]struct{}{
		Favorites: {},
		Cart:      {},
	}
}

func (c *Controller) onSessionEvent(ctx context.Context, ev session.Event) {
	switch ev.Kind {
	case session.SignedIn:
		if err := c.Load(ctx); err != nil {
			// Toggle retries the load before it needs the sets
			c.log.WithError(err).WithField("user_id", ev.Identity.UID).Warn("failed to load collections on sign in")
		}
	case session.SignedOut:
		c.reset()
	}
}

// Close detaches the controller from its session
func (c *Controller) Close() {
	c.unsubscribe()
}

// Load lists both collections and replaces the local id sets
func (c *Controller) Load(ctx context.Context) error {
	ident, ok := c.sess.Current()
	if !ok {
		return identity.ErrUnauthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx, ident.UID)
}

func (c *Controller) loadLocked(ctx context.Context, uid string) error {
	favs, err := c.favorites.ListFavorites(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}
	entries, err := c.carts.ListCart(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list cart: %w", err)
	}

	sets := emptySets()
	for _, f := range favs {
		sets[Favorites][f.ID] = struct{}{}
	}
	for _, e := range entries {
		sets[Cart][e.ID] = struct{}{}
	}
	c.ids = sets
	c.loaded = true
	return nil
}

func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = emptySets()
	c.loaded = false
}

// IsMember reports whether the game is in the collection, from the local set
func (c *Controller) IsMember(kind Kind, itemID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.ids[kind][itemID]
	return ok
}

// IDs returns the sorted ids of a collection, from the local set
func (c *Controller) IDs(kind Kind) []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int, 0, len(c.ids[kind]))
	for id := range c.ids[kind] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Toggle flips the membership of item in the collection with exactly one
// store write or delete. The local set changes only after the store call
// succeeds. Toggles of the same session are applied one at a time.
func (c *Controller) Toggle(ctx context.Context, kind Kind, item catalog.Item) (*Result, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	ident, ok := c.sess.Current()
	if !ok {
		return nil, identity.ErrUnauthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		if err := c.loadLocked(ctx, ident.UID); err != nil {
			c.log.WithError(err).WithField("user_id", ident.UID).Error("failed to load collections")
			return nil, err
		}
	}

	logger := c.log.WithFields(logrus.Fields{
		"user_id":    ident.UID,
		"collection": kind,
		"item_id":    item.ID,
	})

	if _, member := c.ids[kind][item.ID]; member {
		if err := c.delete(ctx, kind, ident.UID, item.ID); err != nil {
			logger.WithError(err).Error("failed to remove item")
			return nil, err
		}
		delete(c.ids[kind], item.ID)
		return &Result{Kind: kind, ItemID: item.ID, Member: false}, nil
	}

	res := &Result{Kind: kind, ItemID: item.ID, Member: true}
	var err error
	switch kind {
	case Favorites:
		err = c.favorites.PutFavorite(ctx, ident.UID, favorite.FromItem(item, c.now()))
	case Cart:
		res.Price = c.pricing.Price(item)
		err = c.carts.PutCartEntry(ctx, ident.UID, cart.NewEntry(item, res.Price, c.now()))
	}
	if err != nil {
		logger.WithError(err).Error("failed to add item")
		return nil, fmt.Errorf("failed to add to %s: %w", kind, err)
	}
	c.ids[kind][item.ID] = struct{}{}
	return res, nil
}

// Remove deletes a game from the collection if present. Removing an absent
// game succeeds without touching the store.
func (c *Controller) Remove(ctx context.Context, kind Kind, itemID int) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	ident, ok := c.sess.Current()
	if !ok {
		return identity.ErrUnauthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		if _, member := c.ids[kind][itemID]; !member {
			return nil
		}
	}
	if err := c.delete(ctx, kind, ident.UID, itemID); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"user_id":    ident.UID,
			"collection": kind,
			"item_id":    itemID,
		}).Error("failed to remove item")
		return err
	}
	delete(c.ids[kind], itemID)
	return nil
}

func (c *Controller) delete(ctx context.Context, kind Kind, uid string, itemID int) error {
	var err error
	switch kind {
	case Favorites:
		err = c.favorites.DeleteFavorite(ctx, uid, itemID)
	case Cart:
		err = c.carts.DeleteCartEntry(ctx, uid, itemID)
	}
	if err != nil {
		return fmt.Errorf("failed to remove from %s: %w", kind, err)
	}
	return nil
}

// Favorites lists the stored favorites that can be displayed. The local
// favorites set is replaced with what the store returned, so writes made
// through another controller become visible.
func (c *Controller) Favorites(ctx context.Context) ([]favorite.Entry, error) {
	ident, ok := c.sess.Current()
	if !ok {
		return nil, identity.ErrUnauthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.favorites.ListFavorites(ctx, ident.UID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", ident.UID).Error("failed to list favorites")
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	ids := make(map[int]struct{}, len(all))
	entries := make([]favorite.Entry, 0, len(all))
	for _, f := range all {
		ids[f.ID] = struct{}{}
		if f.Displayable() {
			entries = append(entries, f)
		}
	}
	c.ids[Favorites] = ids
	return entries, nil
}

// CartEntries lists the stored cart entries and refreshes the local cart set
func (c *Controller) CartEntries(ctx context.Context) ([]cart.Entry, error) {
	ident, ok := c.sess.Current()
	if !ok {
		return nil, identity.ErrUnauthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.carts.ListCart(ctx, ident.UID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", ident.UID).Error("failed to list cart")
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	ids := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		ids[e.ID] = struct{}{}
	}
	c.ids[Cart] = ids
	return entries, nil
}

// ComputeTotal sums the prices of the entries
func (c *Controller) ComputeTotal(entries []cart.Entry) int {
	return cart.ComputeTotal(entries)
}

// ClearCart drops checked-out games from the local cart set
func (c *Controller) ClearCart(itemIDs ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range itemIDs {
		delete(c.ids[Cart], id)
	}
}
