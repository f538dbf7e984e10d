package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bikebuilder/pkg/cache"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/observability"
	"github.com/matzehuels/bikebuilder/pkg/render"
)

// Config tunes a [Server]. Zero values pick the defaults noted per field.
type Config struct {
	Width, Height int                // canvas size; reference size when zero
	AssetBase     string             // prefix for relative image URLs in SVG output
	Loader        render.AssetLoader // image source for PNG output
	Cache         cache.Cache        // artifact cache; NullCache when nil
	CacheTTL      time.Duration      // artifact lifetime; zero keeps forever
	SessionIdle   time.Duration      // idle sessions are dropped after this; 1h when zero
	Metrics       *Metrics           // /metrics is omitted when nil
	Logger        *log.Logger
}

// Server serves the builder API over one loaded catalog.
type Server struct {
	store    *catalog.Store
	cfg      Config
	keyer    cache.Keyer
	sessions *registry
	logger   *log.Logger
}

// New creates a server over store, which must already be loaded.
func New(store *catalog.Store, cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	digest := cache.HashJSON(store.Parts())
	return &Server{
		store:    store,
		cfg:      cfg,
		keyer:    cache.NewScopedKeyer(nil, "catalog:"+digest[:12]+":"),
		sessions: newRegistry(),
		logger:   logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", s.handleCatalog)
		r.Get("/manufacturers", s.handleManufacturers)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Get("/plan", s.handlePlan)
			r.Post("/select", s.handleSelect)
			r.Post("/advance", s.handleAdvance)
			r.Post("/jump", s.handleJump)
			r.Get("/render.{format}", s.handleRender)
		})
	})

	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics.Handler())
	}
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle sessions are expired in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go s.expireLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "parts", s.store.Len())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) expireLoop(ctx context.Context) {
	tick := time.NewTicker(s.cfg.SessionIdle / 4)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if n := s.sessions.expire(s.cfg.SessionIdle); n > 0 {
				for range n {
					observability.Session().OnSessionClose(ctx)
				}
				s.logger.Info("expired idle sessions", "count", n, "open", s.sessions.len())
			}
		}
	}
}
