package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "orders.json", cfg.OrdersFile)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "order_audit", cfg.Kafka.AuditTopic)
	assert.Empty(t, cfg.Chatbot.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Chatbot.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Chatbot.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ORDERS_FILE", "/var/lib/orderdesk/orders.json")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CHATBOT_API_KEY", "secret")
	t.Setenv("CHATBOT_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/orderdesk/orders.json", cfg.OrdersFile)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "secret", cfg.Chatbot.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Chatbot.Timeout)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
