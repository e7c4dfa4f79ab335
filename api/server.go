// Package api - Thin HTTP layer
// The API only decodes carts, calls the engine or advisor, and serializes results.
// It never performs cost logic.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"cloudcart/core/advisor"
	"cloudcart/core/catalog"
	"cloudcart/core/pricing"
	"cloudcart/internal/logging"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Options configure a Server
type Options struct {
	Version        string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Server is the API server
type Server struct {
	engine  *pricing.Engine
	advisor *advisor.Advisor
	catalog *catalog.Catalog
	metrics *Metrics

	router  *httprouter.Router
	handler http.Handler
	opts    Options

	mu     sync.Mutex
	http   *http.Server
	closed bool
}

// NewServer wires routes, CORS and metrics around an engine and an advisor
func NewServer(engine *pricing.Engine, adv *advisor.Advisor, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		engine:  engine,
		advisor: adv,
		catalog: catalog.FromRates(engine.Rates()),
		metrics: NewMetrics(),
		router:  httprouter.New(),
		opts:    opts,
	}

	s.registerRoutes()
	s.handler = corsHandler(opts.AllowedOrigins).Handler(s.router)
	return s
}

func corsHandler(origins []string) *cors.Cors {
	for _, o := range origins {
		if o == "*" {
			return cors.AllowAll()
		}
	}
	if len(origins) == 0 {
		return cors.AllowAll()
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	m := s.metrics

	s.router.GET("/health", m.instrument("health", s.handleHealth))
	s.router.GET("/version", m.instrument("version", s.handleVersion))
	s.router.GET("/catalog", m.instrument("catalog", s.handleCatalog))
	s.router.Handler(http.MethodGet, "/metrics", m.Handler())

	s.router.POST("/calculate-cost", m.instrument("calculate_cost", s.handleCalculateCost))
	s.router.POST("/analyze-hidden-costs", m.instrument("analyze_hidden_costs", s.handleAnalyzeHiddenCosts))
	s.router.POST("/optimize", m.instrument("optimize", s.handleOptimize))
	s.router.POST("/simulate", m.instrument("simulate", s.handleSimulate))
	s.router.POST("/analyze-workload", m.instrument("analyze_workload", s.handleAnalyzeWorkload))
	s.router.POST("/explain-production", m.instrument("explain_production", s.handleExplainProduction))

	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "", "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path, http.StatusNotFound)
	})
	s.router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "", "METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path, http.StatusMethodNotAllowed)
	})
	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		logging.Error("panic in handler", zap.String("path", r.URL.Path), zap.Any("panic", v))
		writeError(w, "", "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the server and blocks until it stops
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
	}
	s.http = srv
	s.mu.Unlock()

	logging.Info("server listening",
		zap.String("addr", addr),
		zap.String("version", s.opts.Version),
		zap.String("pricing_snapshot", s.engine.Rates().Snapshot()),
		zap.Bool("advisor", s.advisor.Available()))

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops a server started with ListenAndServe
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.closed = true
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
