package storage

import (
	"context"
	"errors"

	"github.com/daxwell/orderdesk/internal/models"
)

var (
	// ErrNotFound is returned when no order matches the given order number.
	ErrNotFound = errors.New("order not found")
	// ErrStorageUnavailable is returned when the backing file cannot be
	// read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptData is returned when the backing file exists but does not
	// parse as a sequence of orders.
	ErrCorruptData = errors.New("corrupt order data")
)

// Backend persists the whole order collection. Every mutation is a full
// Load, an in-memory transform and a full Save; there is no partial
// write path.
type Backend interface {
	Load(ctx context.Context) ([]models.Order, error)
	Save(ctx context.Context, orders []models.Order) error
}
