package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daxwell/orderdesk/internal/config"
	"github.com/daxwell/orderdesk/internal/models"
)

func newTestClient(baseURL, apiKey string) *Client {
	c := NewClient(config.ChatbotConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	c.backoff = time.Millisecond
	return c
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustQuote(content) + `}}]}`
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestClient_Ask(t *testing.T) {
	orders := []models.Order{{OrderNumber: "SO-1", Customer: "Acme"}}

	t.Run("returns the model answer", func(t *testing.T) {
		var gotAuth string
		var gotReq chatRequest
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionResponse("Order SO-1 has the highest amount.")))
		}))
		defer upstream.Close()

		client := newTestClient(upstream.URL, "test-key")

		answer, err := client.Ask(context.Background(), "Which order is highest?", orders)
		require.NoError(t, err)
		assert.Equal(t, "Order SO-1 has the highest amount.", answer)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.Equal(t, "test-model", gotReq.Model)
		require.Len(t, gotReq.Messages, 2)
		assert.Contains(t, gotReq.Messages[1].Content, "SO-1")
		assert.Contains(t, gotReq.Messages[1].Content, "Which order is highest?")
	})

	t.Run("retries transient upstream failures", func(t *testing.T) {
		var calls int
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(completionResponse("eventually")))
		}))
		defer upstream.Close()

		client := newTestClient(upstream.URL, "test-key")

		answer, err := client.Ask(context.Background(), "hello", orders)
		require.NoError(t, err)
		assert.Equal(t, "eventually", answer)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls int
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer upstream.Close()

		client := newTestClient(upstream.URL, "bad-key")

		_, err := client.Ask(context.Background(), "hello", orders)
		assert.ErrorIs(t, err, ErrUpstream)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls int
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		client := newTestClient(upstream.URL, "test-key")

		_, err := client.Ask(context.Background(), "hello", orders)
		assert.ErrorIs(t, err, ErrUpstream)
		assert.Equal(t, 4, calls)
	})

	t.Run("disabled without an API key", func(t *testing.T) {
		client := newTestClient("http://unused", "")

		assert.False(t, client.Enabled())
		_, err := client.Ask(context.Background(), "hello", orders)
		assert.ErrorIs(t, err, ErrDisabled)
	})

	t.Run("upstream error body surfaces as upstream error", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
		}))
		defer upstream.Close()

		client := newTestClient(upstream.URL, "test-key")

		_, err := client.Ask(context.Background(), "hello", orders)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUpstream)
		assert.Contains(t, err.Error(), "model overloaded")
	})
}
