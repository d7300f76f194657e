package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/daxwell/orderdesk/internal/models"
)

// OrderStore exposes the order collection on top of a Backend. Each
// mutation is one read-modify-write cycle against its own view of the
// collection; concurrent writers against the same file can lose
// updates, the deployment is assumed single-writer.
type OrderStore struct {
	backend Backend
	logger  *zap.Logger
}

func NewOrderStore(backend Backend, logger *zap.Logger) *OrderStore {
	return &OrderStore{
		backend: backend,
		logger:  logger,
	}
}

// ListOrders returns the full collection in on-disk order.
func (s *OrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// AddOrder appends the order to the end of the collection. No
// uniqueness check is made on the order number; duplicates are the
// caller's problem.
func (s *OrderStore) AddOrder(ctx context.Context, order models.Order) error {
	orders, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}

	orders = append(orders, order)
	if err := s.backend.Save(ctx, orders); err != nil {
		s.logger.Error("failed to save order", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return fmt.Errorf("failed to add order: %w", err)
	}
	return nil
}

// ReplaceOrder swaps out the first record whose number matches. Whole
// record replacement, not a merge.
func (s *OrderStore) ReplaceOrder(ctx context.Context, orderNumber string, order models.Order) error {
	orders, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}

	for i := range orders {
		if orders[i].OrderNumber == orderNumber {
			orders[i] = order
			if err := s.backend.Save(ctx, orders); err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, orderNumber)
}

// DeleteOrders removes every record whose number matches and reports
// how many were removed. No match is not an error; the count is zero.
// Note the filter semantics, unlike ReplaceOrder's first match.
func (s *OrderStore) DeleteOrders(ctx context.Context, orderNumber string) (int, error) {
	orders, err := s.backend.Load(ctx)
	if err != nil {
		return 0, err
	}

	filtered := orders[:0:0]
	for _, o := range orders {
		if o.OrderNumber != orderNumber {
			filtered = append(filtered, o)
		}
	}
	removed := len(orders) - len(filtered)

	if err := s.backend.Save(ctx, filtered); err != nil {
		return 0, fmt.Errorf("failed to delete order: %w", err)
	}
	return removed, nil
}
