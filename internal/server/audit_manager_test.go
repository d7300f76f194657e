package server

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingProducer struct {
	mu       sync.Mutex
	messages [][]byte
	topics   []string
	notify   chan struct{}
}

func newCapturingProducer() *capturingProducer {
	return &capturingProducer{notify: make(chan struct{}, 16)}
}

func (p *capturingProducer) SendMessage(_ context.Context, topic string, _ []byte, value []byte) error {
	p.mu.Lock()
	p.messages = append(p.messages, value)
	p.topics = append(p.topics, topic)
	p.mu.Unlock()
	p.notify <- struct{}{}
	return nil
}

func (p *capturingProducer) Close() error { return nil }

func (p *capturingProducer) batches(t *testing.T, n int) [][]byte {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for batch %d", i+1)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.messages))
	copy(out, p.messages)
	return out
}

func TestAuditManager_PublishesFullBatch(t *testing.T) {
	producer := newCapturingProducer()
	manager := NewAuditManager(producer, "order_audit", zap.NewNop(), 1, 2, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)

	manager.LogEntry(ctx, AuditEntry{Method: "POST", Path: "/api/orders"})
	manager.LogEntry(ctx, AuditEntry{Method: "DELETE", Path: "/api/orders/SO-1"})

	batches := producer.batches(t, 1)
	require.Len(t, batches, 1)
	assert.Equal(t, "order_audit", producer.topics[0])

	var entries []AuditEntry
	require.NoError(t, json.Unmarshal(batches[0], &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "POST", entries[0].Method)
	assert.Equal(t, "DELETE", entries[1].Method)
	assert.NotEmpty(t, entries[0].ID)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	manager.Shutdown(shutdownCtx)
}

func TestAuditManager_FlushesPartialBatchOnTimeout(t *testing.T) {
	producer := newCapturingProducer()
	manager := NewAuditManager(producer, "order_audit", zap.NewNop(), 1, 10, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)

	manager.LogEntry(ctx, AuditEntry{Method: "GET", Path: "/api/orders"})

	batches := producer.batches(t, 1)
	require.Len(t, batches, 1)

	var entries []AuditEntry
	require.NoError(t, json.Unmarshal(batches[0], &entries))
	assert.Len(t, entries, 1)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	manager.Shutdown(shutdownCtx)
}

func TestGetHandlerName(t *testing.T) {
	tests := []struct {
		path     string
		method   string
		expected string
	}{
		{"/api/orders", "GET", "handleListOrders"},
		{"/api/orders", "POST", "handleCreateOrder"},
		{"/api/orders/SO-1", "PUT", "handleReplaceOrder"},
		{"/api/orders/SO-1", "DELETE", "handleDeleteOrder"},
		{"/api/notifications", "GET", "handleRecentFeed"},
		{"/api/notifications/SO-1", "POST", "handleAppendHistory"},
		{"/api/chatbot", "POST", "handleChatbot"},
		{"/somewhere/else", "GET", "unknown"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, getHandlerName(tc.path, tc.method), "%s %s", tc.method, tc.path)
	}
}

func TestOrderNumberFromPath(t *testing.T) {
	assert.Equal(t, "SO-1", orderNumberFromPath("/api/orders/SO-1"))
	assert.Equal(t, "SO-2", orderNumberFromPath("/api/notifications/SO-2"))
	assert.Empty(t, orderNumberFromPath("/api/orders"))
	assert.Empty(t, orderNumberFromPath("/health"))
}
