package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "lexia/internal/log"
	"lexia/internal/metrics"
	"lexia/internal/middleware/ratelimit"
	"lexia/internal/middleware/security"
	"lexia/internal/middleware/trace"
	"lexia/internal/services"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Records       *services.RecordService
	Bookings      *services.BookingService
	Reports       *services.ReportService
	Catalog       *services.CatalogService
	Subscriptions *services.SubscriptionService
	Projects      *services.ProjectService
	Metrics       *metrics.Metrics
	Logger        *applog.Logger
	// Ready reports whether backing stores are reachable. Nil means always ready.
	Ready func(context.Context) error
	// RequestsPerMinute bounds mutating requests per client. Zero uses the
	// limiter default.
	RequestsPerMinute int
}

type Server struct {
	http.Server
	deps         Deps
	limiter      *ratelimit.Limiter
	log          *applog.StructuredLogger
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.Nop()
	}
	s := &Server{
		deps:    deps,
		limiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RequestsPerMinute}),
		log:     applog.NewStructuredLogger(deps.Logger.WithComponent(applog.ComponentHTTP)),
		now:     time.Now,
	}

	mux := http.NewServeMux()
	s.handle(mux, "GET /healthz", handleHealth)
	s.handle(mux, "GET /readyz", s.handleReady)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	s.handle(mux, "GET /api/records", s.handleListRecords)
	s.handle(mux, "POST /api/records", s.handleCreateRecord)
	s.handle(mux, "GET /api/records/{id}", s.handleGetRecord)
	s.handle(mux, "PUT /api/records/{id}", s.handleUpdateRecord)
	s.handle(mux, "DELETE /api/records/{id}", s.handleDeleteRecord)
	s.handle(mux, "POST /api/records/import", s.handleImportRecords)
	s.handle(mux, "GET /api/records/export", s.handleExportRecords)

	s.handle(mux, "GET /api/items", s.handleListItems)
	s.handle(mux, "POST /api/items", s.handleCreateItem)
	s.handle(mux, "DELETE /api/items/{id}", s.handleDeleteItem)

	s.handle(mux, "GET /api/subscriptions", s.handleListSubscriptions)
	s.handle(mux, "POST /api/subscriptions", s.handleCreateSubscription)
	s.handle(mux, "GET /api/subscriptions/{id}", s.handleGetSubscription)
	s.handle(mux, "PUT /api/subscriptions/{id}", s.handleUpdateSubscription)
	s.handle(mux, "DELETE /api/subscriptions/{id}", s.handleDeleteSubscription)

	s.handle(mux, "GET /api/projects", s.handleListProjects)
	s.handle(mux, "POST /api/projects", s.handleCreateProject)
	s.handle(mux, "PUT /api/projects/{id}", s.handleUpdateProject)
	s.handle(mux, "DELETE /api/projects/{id}", s.handleDeleteProject)
	s.handle(mux, "POST /api/projects/{id}/move", s.handleMoveProject)

	s.handle(mux, "GET /api/reports/dashboard", s.handleDashboard)
	s.handle(mux, "GET /api/reports/monthly", s.handleMonthly)

	s.handle(mux, "GET /api/reservations", s.handleListReservations)
	s.handle(mux, "POST /api/reservations", s.handleReserve)
	s.handle(mux, "GET /api/reservations/grid", s.handleGrid)
	s.handle(mux, "GET /api/reservations/next", s.handleNextGrid)
	s.handle(mux, "PATCH /api/reservations/{id}/status", s.handleUpdateReservationStatus)
	s.handle(mux, "DELETE /api/reservations/{id}", s.handleDeleteReservation)

	clientIP := security.NewClientIP()
	limited := s.limiter.Middleware(clientIP.Extract, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(r, http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	})

	var h http.Handler = mux
	h = limited(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(trace.FromRequest)(h)
	h = applog.Middleware(deps.Logger)(h)
	h = trace.NewMiddleware(clientIP.Extract, deps.Logger, deps.Metrics).Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

// handle registers fn and tags the request with its route pattern for
// metrics.
func (s *Server) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		trace.SetRoute(r.Context(), r.Pattern)
		fn(w, r)
	})
}

// Shutdown stops background routines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			s.log.LogError(r.Context(), "Readiness check failed", err, applog.ComponentHTTP, "ready", nil)
			ErrorResponse(r, http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	NewJSONResponse().Data(map[string]string{"status": "ready"}).Write(w)
}
