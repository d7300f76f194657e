package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daxwell/orderdesk/internal/models"
)

func sampleOrders() []models.Order {
	return []models.Order{
		{
			OrderNumber:               "SO-1001",
			Customer:                  "Acme Corp",
			TransactionDate:           "2024-03-01",
			Status:                    "Pending Approval",
			FromLocation:              "Dallas",
			ToLocation:                "Chicago",
			PendingApprovalReasonCode: []string{"PRICE_DISCREPANCY"},
			Lines: []models.OrderLine{
				{Item: "Pallet Jack", Units: "EA", Quantity: 2, Price: 150, Amount: 300},
			},
		},
		{
			OrderNumber:               "SO-1002",
			Customer:                  "Globex",
			TransactionDate:           "2024-03-02",
			Status:                    "Approved",
			FromLocation:              "Austin",
			ToLocation:                "Denver",
			PendingApprovalReasonCode: []string{},
			Lines: []models.OrderLine{
				{Item: "Stretch Wrap", Units: "CS", Quantity: 10, Price: 25, Amount: 250},
			},
			History: []models.HistoryEntry{
				{Event: "created", Timestamp: "2024-03-02T08:00:00Z"},
			},
		},
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.json")
	fs := NewFileStorage(path)

	orders := sampleOrders()
	require.NoError(t, fs.Save(ctx, orders))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, orders, loaded)
}

func TestFileStorage_MissingFileIsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStorage(filepath.Join(t.TempDir(), "orders.json"))

	orders, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.json")

	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated json", content: `[{"orderNumber": "SO-1`},
		{name: "not an array", content: `{"orderNumber": "SO-1001"}`},
		{name: "plain text", content: "not json at all"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			fs := NewFileStorage(path)
			_, err := fs.Load(ctx)
			assert.ErrorIs(t, err, ErrCorruptData)
		})
	}
}

func TestFileStorage_UnreadablePath(t *testing.T) {
	ctx := context.Background()
	// A directory is not a readable file.
	fs := NewFileStorage(t.TempDir())

	_, err := fs.Load(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = fs.Save(ctx, sampleOrders())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestFileStorage_SaveIsIndented(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.json")
	fs := NewFileStorage(path)

	require.NoError(t, fs.Save(ctx, sampleOrders()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n"))
}

func TestFileStorage_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.json")
	fs := NewFileStorage(path)

	require.NoError(t, fs.Save(ctx, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}
