// Package server exposes chat analysis over HTTP: upload an export, get
// the report as JSON or as a PDF/ZIP bundle.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/config"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/sentiment"
)

type Server struct {
	router    *chi.Mux
	cfg       *config.Config
	log       *slog.Logger
	metrics   *metrics
	stopwords analysis.Stopwords
	scorer    sentiment.Scorer
	limiter   *rateLimiter
}

func New(cfg *config.Config, log *slog.Logger, stopwords analysis.Stopwords) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		cfg:       cfg,
		log:       log,
		metrics:   newMetrics(),
		stopwords: stopwords,
		scorer:    sentiment.New(),
		limiter:   newRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}

	router.Get("/health", s.health)
	router.Method(http.MethodGet, "/metrics", s.metrics.handler())
	router.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(s.rateLimit)
		}
		r.Post("/analyze", s.analyze)
		r.Post("/report", s.report)
	})
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is done, then
// drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("API server starting", "addr", s.cfg.ListenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("API server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
