package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/daxwell/orderdesk/internal/models"
)

// FileStorage keeps the order collection in a single JSON-array file,
// two-space indented, with no wrapping envelope. The layout stays
// byte-compatible with the orders.json files the dashboard already has.
type FileStorage struct {
	filePath string
	mu       sync.Mutex
}

func NewFileStorage(filePath string) *FileStorage {
	return &FileStorage{filePath: filePath}
}

// Load reads the whole collection. A missing file is an empty
// collection; the file gets created on the first successful Save.
func (fs *FileStorage) Load(_ context.Context) ([]models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Order{}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorageUnavailable, fs.filePath, err)
	}

	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorruptData, fs.filePath, err)
	}
	return orders, nil
}

// Save overwrites the whole collection. A crash between truncation and
// write completion leaves a file that fails the next Load with
// ErrCorruptData; that is surfaced on read, never repaired.
func (fs *FileStorage) Save(_ context.Context, orders []models.Order) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if orders == nil {
		orders = []models.Order{}
	}

	file, err := os.Create(fs.filePath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorageUnavailable, fs.filePath, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(orders); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrStorageUnavailable, fs.filePath, err)
	}
	return nil
}
