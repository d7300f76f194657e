package server

import (
	"strings"
	"time"
)

type AuditEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Handler     string    `json:"handler"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	StatusCode  int       `json:"status_code"`
	OrderNumber string    `json:"order_number,omitempty"`
	Request     string    `json:"request,omitempty"`
	Response    string    `json:"response,omitempty"`
}

func getHandlerName(path string, method string) string {
	switch {
	case strings.HasPrefix(path, "/api/orders"):
		switch method {
		case "POST":
			return "handleCreateOrder"
		case "PUT":
			return "handleReplaceOrder"
		case "DELETE":
			return "handleDeleteOrder"
		case "GET":
			return "handleListOrders"
		}
	case strings.HasPrefix(path, "/api/notifications"):
		if method == "POST" {
			return "handleAppendHistory"
		}
		return "handleRecentFeed"
	case strings.HasPrefix(path, "/api/chatbot"):
		return "handleChatbot"
	}
	return "unknown"
}
