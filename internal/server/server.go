//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=server_mocks
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	gorilla "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/daxwell/orderdesk/internal/chatbot"
	"github.com/daxwell/orderdesk/internal/metrics"
	"github.com/daxwell/orderdesk/internal/models"
	"github.com/daxwell/orderdesk/internal/notifications"
	"github.com/daxwell/orderdesk/internal/storage"
)

type Storage interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	AddOrder(ctx context.Context, order models.Order) error
	ReplaceOrder(ctx context.Context, orderNumber string, order models.Order) error
	DeleteOrders(ctx context.Context, orderNumber string) (int, error)
}

type NotificationLog interface {
	Append(ctx context.Context, orderNumber, event, timestamp string) error
	Recent(ctx context.Context, limit int) ([]models.Notification, error)
}

type Chatbot interface {
	Enabled() bool
	Ask(ctx context.Context, question string, orders []models.Order) (string, error)
}

type Server struct {
	storage       Storage
	notifications NotificationLog
	chatbot       Chatbot
	auditManager  *AuditManager
	logger        *zap.Logger

	httpServer  *http.Server
	corsOrigins []string
}

func New(storage Storage, log NotificationLog, bot Chatbot, auditManager *AuditManager, logger *zap.Logger, corsOrigins []string) *Server {
	return &Server{
		storage:       storage,
		notifications: log,
		chatbot:       bot,
		auditManager:  auditManager,
		logger:        logger,
		corsOrigins:   corsOrigins,
	}
}

// Run starts the audit pipeline and serves HTTP until the listener
// fails or Shutdown is called.
func (s *Server) Run(ctx context.Context, port int) error {
	s.auditManager.Start(ctx)

	s.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("server starting", zap.Int("port", port))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.auditManager.Shutdown(ctx)
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.metricsMiddleware)
	api.Use(s.loggingMiddleware)
	api.Use(s.auditMiddleware)

	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{orderNumber}", s.handleReplaceOrder).Methods(http.MethodPut)
	api.HandleFunc("/orders/{orderNumber}", s.handleDeleteOrder).Methods(http.MethodDelete)

	api.HandleFunc("/notifications", s.handleRecentFeed).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{orderNumber}", s.handleAppendHistory).Methods(http.MethodPost)

	api.HandleFunc("/chatbot", s.handleChatbot).Methods(http.MethodPost)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	cors := gorilla.CORS(
		gorilla.AllowedOrigins(s.corsOrigins),
		gorilla.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorilla.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return cors(router)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request processed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
			zap.String("remoteAddr", r.RemoteAddr))
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.storage.ListOrders(r.Context())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_orders").Inc()
		if errors.Is(err, storage.ErrCorruptData) {
			respondError(w, http.StatusInternalServerError, "Invalid JSON format")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if order.OrderNumber == "" {
		respondError(w, http.StatusBadRequest, "Missing order number")
		return
	}

	if err := s.storage.AddOrder(r.Context(), order); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_order").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to save order")
		return
	}

	metrics.OrdersCreatedTotal.Inc()
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Order saved successfully"})
}

func (s *Server) handleReplaceOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := mux.Vars(r)["orderNumber"]

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.storage.ReplaceOrder(r.Context(), orderNumber, order); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("replace_order").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	metrics.OrdersReplacedTotal.Inc()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Order updated successfully"})
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := mux.Vars(r)["orderNumber"]

	removed, err := s.storage.DeleteOrders(r.Context(), orderNumber)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("delete_order").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	metrics.OrdersDeletedTotal.Add(float64(removed))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order deleted successfully",
		"removed": removed,
	})
}

func (s *Server) handleRecentFeed(w http.ResponseWriter, r *http.Request) {
	limit := notifications.DefaultFeedLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'limit' parameter")
			return
		}
		limit = parsed
	}

	feed, err := s.notifications.Recent(r.Context(), limit)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("recent_feed").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

func (s *Server) handleAppendHistory(w http.ResponseWriter, r *http.Request) {
	orderNumber := mux.Vars(r)["orderNumber"]

	var entry models.HistoryEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if entry.Event == "" {
		respondError(w, http.StatusBadRequest, "Missing event description")
		return
	}

	if err := s.notifications.Append(r.Context(), orderNumber, entry.Event, entry.Timestamp); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("append_history").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to update history")
		return
	}

	metrics.HistoryAppendsTotal.Inc()
	respondJSON(w, http.StatusOK, map[string]string{"message": "History entry added"})
}

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	var chatRequest struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&chatRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if chatRequest.Question == "" {
		respondError(w, http.StatusBadRequest, "Missing question")
		return
	}

	if !s.chatbot.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "Chatbot is not configured")
		return
	}

	orders, err := s.storage.ListOrders(r.Context())
	if err != nil {
		metrics.ChatbotRequestsTotal.WithLabelValues("storage_error").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}

	answer, err := s.chatbot.Ask(r.Context(), chatRequest.Question, orders)
	if err != nil {
		metrics.ChatbotRequestsTotal.WithLabelValues("upstream_error").Inc()
		if errors.Is(err, chatbot.ErrDisabled) {
			respondError(w, http.StatusServiceUnavailable, "Chatbot is not configured")
			return
		}
		respondError(w, http.StatusBadGateway, "Failed to get response")
		return
	}

	metrics.ChatbotRequestsTotal.WithLabelValues("ok").Inc()
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
