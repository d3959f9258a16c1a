// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/session"
)

// Publisher announces placed orders to other systems
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order) error
}

// Notifier sends the order confirmation to the buyer
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, to identity.Identity, o *order.Order) error
}

// CartState is the session-local view of the cart that must forget
// checked-out games
type CartState interface {
	ClearCart(itemIDs ...int)
}

// Result is the outcome of a checkout. Placed is false when the cart was
// empty and nothing was written.
type Result struct {
	Placed bool         `json:"placed"`
	Order  *order.Order `json:"order,omitempty"`
}

// Service converts the cart into an order
type Service struct {
	carts     cart.Repository
	orders    order.Repository
	publisher Publisher
	notifier  Notifier
	now       func() time.Time
	log       logrus.FieldLogger
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sets the order event publisher
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithNotifier sets the confirmation mailer
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new checkout service
func NewService(carts cart.Repository, orders order.Repository, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		carts:  carts,
		orders: orders,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout reads the signed-in user's cart and, when it is not empty,
// writes one order holding a copy of the entries while deleting them from
// the cart in the same atomic write. state may be nil.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, state CartState) (*Result, error) {
	ident, ok := sess.Current()
	if !ok {
		return nil, identity.ErrUnauthenticated
	}
	logger := s.log.WithField("user_id", ident.UID)

	entries, err := s.carts.ListCart(ctx, ident.UID)
	if err != nil {
		logger.WithError(err).Error("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(entries) == 0 {
		return &Result{Placed: false}, nil
	}

	o := order.New(ident.UID, entries, s.now())
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := s.orders.PlaceOrder(ctx, o); err != nil {
		logger.WithError(err).Error("failed to place order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if state != nil {
		state.ClearCart(o.ItemIDs()...)
	}

	logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"items":    len(o.Items),
		"total":    o.Total,
	}).Info("order placed")

	s.afterPlaced(ctx, ident, o, logger)

	return &Result{Placed: true, Order: o}, nil
}

// afterPlaced runs the side effects that never fail a checkout
func (s *Service) afterPlaced(ctx context.Context, ident identity.Identity, o *order.Order, logger logrus.FieldLogger) {
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
			logger.WithError(err).WithField("order_id", o.ID).Warn("failed to publish order event")
		}
	}
	if s.notifier != nil && ident.Email != "" {
		if err := s.notifier.SendOrderConfirmation(ctx, ident, o); err != nil {
			logger.WithError(err).WithField("order_id", o.ID).Warn("failed to send order confirmation")
		}
	}
}
