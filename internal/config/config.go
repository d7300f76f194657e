package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       int
	LogLevel   string
	OrdersFile string

	CORSOrigins []string

	Kafka   KafkaConfig
	Chatbot ChatbotConfig
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

type ChatbotConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// loadEnv looks for a .env next to the working directory or up to two
// levels above it. Absence is fine; real environments set variables
// directly.
func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Load reads the configuration from the environment, falling back to
// defaults that run the service against a local orders.json.
func Load() (*Config, error) {
	loadEnv()

	port, err := strconv.Atoi(getEnv("PORT", "4000"))
	if err != nil {
		return nil, err
	}

	chatbotTimeout, err := time.ParseDuration(getEnv("CHATBOT_TIMEOUT", "30s"))
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &Config{
		Port:        port,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		OrdersFile:  getEnv("ORDERS_FILE", "orders.json"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		Kafka: KafkaConfig{
			Brokers:    brokers,
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "order_audit"),
		},
		Chatbot: ChatbotConfig{
			APIKey:  getEnv("CHATBOT_API_KEY", ""),
			BaseURL: getEnv("CHATBOT_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("CHATBOT_MODEL", "gpt-4o-mini"),
			Timeout: chatbotTimeout,
		},
	}, nil
}
