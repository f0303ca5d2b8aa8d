package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/tenant"
)

// MetricsMiddleware tracks request timing and tags every response with a request id
func MetricsMiddleware(mc *MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			requestID := uuid.New().String()
			w.Header().Set("X-Request-Id", requestID)

			if path == "/health" || path == "/api/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			startTime := time.Now()
			wrappedWriter := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrappedWriter, r)

			trace := RequestTrace{
				RequestID:     requestID,
				Method:        r.Method,
				Path:          path,
				ClubID:        tenant.Hint(r),
				Status:        wrappedWriter.statusCode,
				StartTime:     startTime,
				TotalDuration: time.Since(startTime),
			}
			if trace.Status >= 400 {
				trace.Error = http.StatusText(trace.Status)
			}
			mc.RecordTrace(trace)

			if trace.TotalDuration > time.Second {
				zap.S().Warnw("Slow request detected",
					"requestId", requestID,
					"method", r.Method,
					"path", path,
					"duration", trace.TotalDuration,
					"status", trace.Status,
				)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
// It implements http.Hijacker to support WebSocket upgrades
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker to support WebSocket upgrades
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}
