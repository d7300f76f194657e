package server

import (
	"bytes"
	"net/http"
)

// responseRecorder captures the status code and body of a response so
// the audit middleware can attach them to the audit entry.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) Status() int { return r.status }

func (r *responseRecorder) Body() []byte { return r.body.Bytes() }
