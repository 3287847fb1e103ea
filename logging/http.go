package logging

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPErrorResponse represents a standard JSON error response
type HTTPErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError writes a JSON error response and logs it
func WriteJSONError(w http.ResponseWriter, logger *Logger, message string, statusCode int, context map[string]interface{}) {
	logFields := make(map[string]interface{})
	for k, v := range context {
		logFields[k] = v
	}
	logFields["status_code"] = statusCode
	logFields["message"] = message

	logger.Error("HTTP error response", logFields)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(HTTPErrorResponse{Error: message}); err != nil {
		logger.Warn("Failed to encode error response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, logger *Logger, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Warn("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// statusRecorder captures the status code written by a downstream handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards flushes so streaming responses keep working through the
// middleware wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// RequestLogger returns a middleware that tags every request with a
// generated ID and logs method, path, status, and duration on completion.
func RequestLogger(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-Id", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Info("request handled", map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			})
		})
	}
}
