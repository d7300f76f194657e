package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Server) auditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := AuditEntry{
			ID:          uuid.NewString(),
			Timestamp:   time.Now().UTC(),
			Method:      r.Method,
			Path:        r.URL.Path,
			Handler:     getHandlerName(r.URL.Path, r.Method),
			OrderNumber: orderNumberFromPath(r.URL.Path),
		}

		if r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)
		}

		rec := newResponseRecorder(w)
		next.ServeHTTP(rec, r)

		entry.StatusCode = rec.Status()
		entry.Response = string(rec.Body())

		s.auditManager.LogEntry(r.Context(), entry)
	})
}

// orderNumberFromPath pulls the order number out of /api/orders/{n}
// and /api/notifications/{n} paths.
func orderNumberFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if (part == "orders" || part == "notifications") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
