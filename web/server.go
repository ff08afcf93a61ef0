// ABOUTME: HTTP JSON API server over the operation surface
// ABOUTME: Routes requests, tags them with correlation ids and shuts down gracefully
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/prospect/service"
	"github.com/prometheus/client_golang/prometheus"
)

const maxBodyBytes = 1 << 20

type Server struct {
	svc      *service.Service
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *metrics
	handler  http.Handler
}

// NewServer builds the API. Metrics live in a private registry exposed at /metrics.
func NewServer(svc *service.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	registry := prometheus.NewRegistry()
	s := &Server{
		svc:      svc,
		logger:   logger,
		registry: registry,
		metrics:  newMetrics(registry),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Core operations
	mux.HandleFunc("POST /api/activities/link", s.handleLinkActivity)
	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/contacts/followups", s.handleContactFollowups)
	mux.HandleFunc("POST /api/leads/{id}/contact-attempts", s.handleLogAttempt)
	mux.HandleFunc("POST /api/leads/convert", s.handleConvertLead)
	mux.HandleFunc("GET /api/leads/followups", s.handleLeadFollowups)

	// Records and activities
	mux.HandleFunc("POST /api/leads", s.handleCreateLead)
	mux.HandleFunc("POST /api/contacts", s.handleCreateContact)
	mux.HandleFunc("GET /api/contacts", s.handleListContacts)
	mux.HandleFunc("GET /api/contacts/{id}", s.handleGetContact)
	mux.HandleFunc("GET /api/contacts/{id}/activities", s.handleContactActivities)
	mux.HandleFunc("GET /api/contacts/{id}/attempts", s.handleContactAttempts)
	mux.HandleFunc("PUT /api/contacts/{id}/cadence", s.handleSetCadence)
	mux.HandleFunc("GET /api/activities", s.handleListActivities)
	mux.HandleFunc("POST /api/activities", s.handleCaptureActivity)
	mux.HandleFunc("DELETE /api/activities/{id}/link", s.handleUnlinkActivity)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metricsHandler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowedMethods(mux, r); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
				r.Method+" is not allowed on "+r.URL.Path, correlationID(r))
			return
		}
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found", correlationID(r))
	})

	return s.withCorrelation(s.instrument(mux))
}

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// allowedMethods lists the methods some route other than the fallback
// accepts for r's path.
func allowedMethods(mux *http.ServeMux, r *http.Request) []string {
	var allowed []string
	for _, method := range routeMethods {
		probe := r.Clone(r.Context())
		probe.Method = method
		if _, pattern := mux.Handler(probe); pattern != "" && pattern != "/" {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
