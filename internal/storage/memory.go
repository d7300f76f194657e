package storage

import (
	"context"
	"sync"

	"github.com/daxwell/orderdesk/internal/models"
)

// MemoryStorage is an in-memory Backend used by tests in place of a
// real file. Failures can be injected per operation.
type MemoryStorage struct {
	mu      sync.Mutex
	orders  []models.Order
	loadErr error
	saveErr error
}

func NewMemoryStorage(orders ...models.Order) *MemoryStorage {
	return &MemoryStorage{orders: orders}
}

func (ms *MemoryStorage) Load(_ context.Context) ([]models.Order, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.loadErr != nil {
		return nil, ms.loadErr
	}
	out := make([]models.Order, len(ms.orders))
	copy(out, ms.orders)
	return out, nil
}

func (ms *MemoryStorage) Save(_ context.Context, orders []models.Order) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.saveErr != nil {
		return ms.saveErr
	}
	ms.orders = make([]models.Order, len(orders))
	copy(ms.orders, orders)
	return nil
}

func (ms *MemoryStorage) FailLoadWith(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.loadErr = err
}

func (ms *MemoryStorage) FailSaveWith(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.saveErr = err
}
