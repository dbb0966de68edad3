// Package api serves scores, statistics, metrics and a live spectator feed
// over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vovakirdan/neonsnake/internal/metrics"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

// ScoreSource is the read side of the score store.
type ScoreSource interface {
	TopScores(limit int) ([]storage.ScoreRecord, error)
	RecentScores(limit int) ([]storage.ScoreRecord, error)
	HighScore() (int, error)
	Statistics(maxRecent int) (storage.Statistics, error)
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
type RouterConfig struct {
	// Scores backs the score and statistics endpoints. Required.
	Scores ScoreSource

	// Hub serves the live feed. Optional; without it /ws/live and
	// /api/live answer 404.
	Hub *Hub

	// Metrics is exposed on /metrics and records request latency.
	Metrics *metrics.Metrics

	Logger *log.Logger

	// AllowedOrigins for CORS. "*" allows any origin.
	AllowedOrigins []string

	// RateLimit is optional; the zero value uses DefaultRateLimitConfig.
	RateLimit RateLimitConfig

	// MaxRecent caps recent scores in /api/stats.
	MaxRecent int
}

type handlers struct {
	scores    ScoreSource
	hub       *Hub
	logger    *log.Logger
	maxRecent int
}

// NewRouter constructs the HTTP router with all middleware and routes.
// It starts no goroutines and opens no listeners, so it can be handed
// straight to httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	maxRecent := cfg.MaxRecent
	if maxRecent <= 0 {
		maxRecent = storage.DefaultMaxRecent
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics(cfg.Metrics, logger))

	rl := cfg.RateLimit
	if rl.RequestsPerSecond <= 0 {
		rl = DefaultRateLimitConfig
	}
	r.Use(NewIPRateLimiter(rl).Middleware)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	h := &handlers{
		scores:    cfg.Scores,
		hub:       cfg.Hub,
		logger:    logger,
		maxRecent: maxRecent,
	}

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", cfg.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.handleStats)
		r.Get("/scores", h.handleScores)
		r.Get("/scores/high", h.handleHighScore)
		r.Get("/live", h.handleLive)
	})

	r.Get("/ws/live", h.handleWebSocket)

	return r
}

// requestMetrics records latency per route pattern, never per raw URL.
func requestMetrics(m *metrics.Metrics, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordRequest(r.Method, pattern, status, time.Since(start))
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "took", time.Since(start))
		})
	}
}
