// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// ReceiptRenderer turns an order into a printable document
type ReceiptRenderer interface {
	RenderReceipt(o *Order, customer string) ([]byte, error)
}

// Service handles order history
type Service struct {
	repo     Repository
	receipts ReceiptRenderer
	log      logrus.FieldLogger
}

// NewService creates a new order service
func NewService(repo Repository, receipts ReceiptRenderer, log logrus.FieldLogger) *Service {
	return &Service{
		repo:     repo,
		receipts: receipts,
		log:      log,
	}
}

// History returns the user's orders, newest first
func (s *Service) History(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.repo.ListOrders(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	return orders, nil
}

// Get returns a single order of the user
func (s *Service) Get(ctx context.Context, userID, orderID string) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.WithError(err).WithField("order_id", orderID).Error("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// Receipt renders the receipt of an order
func (s *Service) Receipt(ctx context.Context, userID, orderID, customer string) ([]byte, error) {
	if s.receipts == nil {
		return nil, fmt.Errorf("receipts are not configured")
	}

	o, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	doc, err := s.receipts.RenderReceipt(o, customer)
	if err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Error("failed to render receipt")
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return doc, nil
}
