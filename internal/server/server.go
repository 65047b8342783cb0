// Package server implements the HTTP server that exposes the document QA
// service: document upload, question answering, status, history, health,
// and Prometheus metrics. The server is started by the `docsage serve` CLI
// command.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docsage/internal/corpus"
	"docsage/internal/logging"
)

// Server is the HTTP server for the document QA service.
type Server struct {
	// ingester runs the learn pipeline for uploads.
	ingester ingester
	// asker runs the ask pipeline for questions.
	asker asker
	// corpus is read by GET /api/status.
	corpus corpus.Store
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the Prometheus instruments owned by this server.
	metrics *serverMetrics
	// gatherer is the registry behind GET /metrics, kept for tests.
	gatherer prometheus.Gatherer
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// New constructs a Server from the provided pipelines and config. reg is the
// Prometheus registry metrics are registered into; tests pass a fresh one.
func New(ing ingester, ask asker, store corpus.Store, cfg *Config, reg *prometheus.Registry) (*Server, error) {
	if ing == nil || ask == nil || store == nil {
		return nil, fmt.Errorf("server: ingester, asker, and corpus store must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// WriteTimeout must cover a full ingestion (extract + embed batches).
		cfg.WriteTimeout = 5 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New()
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.AllowedIPs == "" {
		cfg.AllowedIPs = "*"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "public"
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		ingester: ing,
		asker:    ask,
		corpus:   store,
		cfg:      cfg,
		pingers:  cfg.Pingers,
		metrics:  newServerMetrics(reg),
		gatherer: reg,
	}

	if cfg.APIKey == "" {
		cfg.Logger.Warn("server: DOCSAGE_API_KEY not set — API authentication is disabled")
	}

	allow, err := parseAllowedIPs(cfg.AllowedIPs)
	if err != nil {
		return nil, err
	}

	rl, stopRL := newRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Logger)
	s.stopRL = stopRL

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/train", s.handleTrain)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	// Outermost first: request logging, then the client allow-list, then
	// bearer auth, then per-IP rate limiting.
	handler := requestLogger(cfg.Logger, s.metrics,
		allow.middleware(
			authMiddleware(cfg.APIKey,
				rl.middleware(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// Handler exposes the fully wired handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	defer s.stopRL()

	errCh := make(chan error, 1)

	go func() {
		s.cfg.Logger.Info("server: listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
