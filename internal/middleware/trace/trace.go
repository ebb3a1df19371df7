package trace

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "lexia/internal/log"
	"lexia/internal/metrics"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	routeKey     contextKey = "route"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// Middleware assigns every request an id, logs its completion and records
// latency metrics.
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *applog.StructuredLogger
	metrics   *metrics.Metrics
}

func NewMiddleware(extractIP func(*http.Request) string, logger *applog.Logger, m *metrics.Metrics) *Middleware {
	return &Middleware{
		extractIP: extractIP,
		logger:    applog.NewStructuredLogger(logger.WithComponent(applog.ComponentTrace)),
		metrics:   m,
	}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := incomingID(r.Header.Get(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		route := new(string)
		ctx := context.WithValue(WithRequestID(r.Context(), requestID), routeKey, route)
		r = r.WithContext(ctx)
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}
		elapsed := time.Since(start)
		m.logger.LogHTTPEnd(r.Context(), r, rw.statusCode, elapsed.Milliseconds(), clientIP)

		label := *route
		if label == "" {
			label = r.Pattern
		}
		if label == "" {
			label = "unmatched"
		}
		m.metrics.ObserveHTTP(label, rw.statusCode, elapsed)
	})
}

// incomingID accepts a caller supplied id only when it is short and
// printable, so it cannot inject into log lines.
func incomingID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > 64 {
		return ""
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return ""
		}
	}
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id assigned by the middleware, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// SetRoute records the matched route pattern so metrics are labelled by
// route rather than by raw path. Handlers registered on a ServeMux call it
// with r.Pattern.
func SetRoute(ctx context.Context, pattern string) {
	if p, ok := ctx.Value(routeKey).(*string); ok {
		*p = pattern
	}
}

// FromRequest adapts RequestID for applog.RequestIDMiddleware.
func FromRequest(r *http.Request) string {
	return RequestID(r.Context())
}
