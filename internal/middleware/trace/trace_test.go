package trace

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "lexia/internal/log"
	"lexia/internal/metrics"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	h := NewMiddleware(nil, applog.Nop(), nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if seen == "" || rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("request id %q not echoed (header %q)", seen, rec.Header().Get(HeaderRequestID))
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMiddleware_HonoursIncomingID(t *testing.T) {
	tests := []struct {
		in   string
		keep bool
	}{
		{"abc-123", true},
		{"has space", false},
		{strings.Repeat("a", 65), false},
		{"", false},
	}
	for _, tt := range tests {
		var seen string
		h := NewMiddleware(nil, applog.Nop(), nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = FromRequest(r)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, tt.in)
		h.ServeHTTP(httptest.NewRecorder(), req)

		if got := seen == tt.in; got != tt.keep {
			t.Errorf("incoming %q: kept = %v, want %v (got %q)", tt.in, got, tt.keep, seen)
		}
	}
}

func TestMiddleware_RecordsRouteMetrics(t *testing.T) {
	m := metrics.New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		SetRoute(r.Context(), r.Pattern)
	})
	h := NewMiddleware(nil, applog.Nop(), m).Middleware(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`lexia_http_requests_total{code="200",route="GET /items/{id}"} 1`,
		`lexia_http_requests_total{code="404",route="unmatched"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
