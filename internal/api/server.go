package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/atharv3903/logiroute/internal/config"
	"github.com/atharv3903/logiroute/internal/metrics"
	"github.com/atharv3903/logiroute/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Server struct {
	Router *chi.Mux
	svc    *service.RoutingService
	cfg    config.ServerConfig
	log    *slog.Logger
}

// New wires the router. gatherer backs /metrics and is normally the registry
// m was registered on.
func New(svc *service.RoutingService, cfg config.ServerConfig, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	s := &Server{
		Router: chi.NewRouter(),
		svc:    svc,
		cfg:    cfg,
		log:    logger,
	}

	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(accessLog(logger))
	s.Router.Use(m.HTTPMiddleware)
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimit.RPS > 0 {
		s.Router.Use(limit(rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)))
	}

	s.Router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.Router.Get("/", s.handleRoot)

	s.Router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/route", s.handleRoute)
		r.Get("/graph", s.handleGraph)
	})

	s.Router.Route("/debug", func(r chi.Router) {
		r.Get("/cache_stats", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, s.svc.CacheStats())
		})
		r.Post("/clear_cache", func(w http.ResponseWriter, r *http.Request) {
			s.svc.ClearCache()
			s.log.Info("route cache cleared")
			render.JSON(w, r, map[string]bool{"ok": true})
		})
	})
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// limit shares one token bucket across all clients.
func limit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				render.Render(w, r, ErrTooManyRequests())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
