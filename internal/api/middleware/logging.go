package middleware

import (
	"net/http"
	"time"

	"github.com/ototamirci/backend/internal/infrastructure/observability"
)

// LoggingMiddleware attaches a request logger to the context and logs each
// request once it completes
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		logger := observability.LoggerFromContext(r.Context())
		r, holder := withRoute(r.WithContext(logger.WithContext(r.Context())))

		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r)

		event := logger.Info()
		if rw.statusCode >= http.StatusInternalServerError {
			event = logger.Error()
		}
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			event = event.Str("forwarded_for", forwarded)
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", holder.route()).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Str("ip", ClientIP(r, false)).
			Msg("request")
	})
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	if !rw.wroteHeader {
		rw.statusCode = statusCode
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
