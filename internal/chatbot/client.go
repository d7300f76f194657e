package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/daxwell/orderdesk/internal/config"
	"github.com/daxwell/orderdesk/internal/models"
)

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("chatbot is not configured")
	// ErrUpstream is returned when the language-model API fails after
	// retries.
	ErrUpstream = errors.New("chatbot upstream error")
)

const systemPrompt = "You are a helpful assistant for an order-management dashboard. " +
	"Answer the user's question using only the order data provided as JSON. " +
	"Be concise; if the data does not contain the answer, say so."

// Client proxies natural-language questions about the order collection
// to an OpenAI-compatible chat completions endpoint. Best effort:
// transient upstream failures are retried a few times with backoff,
// anything else is reported back as ErrUpstream.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger

	maxRetries int
	backoff    time.Duration
}

func NewClient(cfg config.ChatbotConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:     logger,
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Ask sends the question together with a JSON snapshot of the orders
// and returns the model's answer.
func (c *Client) Ask(ctx context.Context, question string, orders []models.Order) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	snapshot, err := json.Marshal(orders)
	if err != nil {
		return "", fmt.Errorf("failed to serialize orders: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Order data:\n" + string(snapshot) + "\n\nQuestion: " + question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}

	var answer string
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		var retryable bool
		answer, retryable, lastErr = c.ask(ctx, payload)
		if lastErr == nil {
			return answer, nil
		}
		if !retryable {
			break
		}
		c.logger.Warn("chatbot request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}

	c.logger.Error("chatbot request failed", zap.Error(lastErr))
	return "", fmt.Errorf("%w: %v", ErrUpstream, lastErr)
}

func (c *Client) ask(ctx context.Context, payload []byte) (answer string, retryable bool, err error) {
	url := c.baseURL + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return "", true, fmt.Errorf("request timed out: %w", err)
		}
		return "", true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retryable, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("upstream error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, errors.New("upstream returned no choices")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
