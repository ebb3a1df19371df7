package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Output: &buf})

	l.Info("hello", FieldCount, 3)
	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "count=3") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentBooking).Warn("moved")
	if !strings.Contains(buf.String(), "component=booking") {
		t.Fatalf("component not switched: %s", buf.String())
	}

	buf.Reset()
	l.Info("explicit", FieldComponent, "custom")
	if strings.Count(buf.String(), "component=") != 1 {
		t.Fatalf("component duplicated: %s", buf.String())
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentApp, Output: &buf}))

	sl.LogBookingReserved(context.Background(), 7, "2024-06-10", "11:00", "pending")
	if !strings.Contains(buf.String(), "booking_time=11:00") || !strings.Contains(buf.String(), "operation=reserve") {
		t.Fatalf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	sl.LogError(context.Background(), "boom", errors.New("disk full"), ComponentStorage, OpCreate, nil)
	if !strings.Contains(buf.String(), `error="disk full"`) || !strings.Contains(buf.String(), "level=ERROR") {
		t.Fatalf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	r := httptest.NewRequest(http.MethodGet, "/api/records?x=1", nil)
	sl.LogHTTPEnd(context.Background(), r, 404, 3, "1.2.3.4")
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "status_code=404") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestMiddlewareAndFromContext(t *testing.T) {
	base := Nop()
	var got *Logger
	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "rid-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil || got == base {
		t.Fatal("expected request-scoped logger")
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatal("fallback logger should be tagged unknown")
	}
}
