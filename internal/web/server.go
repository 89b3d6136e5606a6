package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/catalog"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/markers"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/selection"
)

// Server serves the map API over one loaded dataset.
type Server struct {
	Addr           string
	AllowedOrigins []string
	SessionIdle    time.Duration

	dataset  *model.Dataset
	index    *catalog.Index
	sessions *selection.Registry
	icons    *markers.Cache
	logger   *zap.Logger
}

// New creates a server for ds. Sessions get their favourites from sessions'
// store factory.
func New(ds *model.Dataset, sessions *selection.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		SessionIdle: 2 * time.Hour,
		dataset:     ds,
		index:       catalog.NewIndex(ds.Videos),
		sessions:    sessions,
		icons:       &markers.Cache{},
		logger:      logger,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/countries", s.handleCountries)
		r.Get("/countries/{slug}", s.handleCountryPage)
		r.Get("/locations", s.handleLocations)
		r.Get("/locations.geojson", s.handleGeoJSON)
		r.Get("/locations/{id}", s.handleLocation)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/search", s.handleSearch)
				r.Post("/country", s.handleCountry)
				r.Post("/video", s.handleVideo)
				r.Post("/location", s.handleSelectLocation)
				r.Post("/reset", s.handleReset)
				r.Post("/filters", s.handleFilters)
				r.Post("/click", s.handleClick)
				r.Put("/favourites/{locationID}", s.handleAddFavourite)
				r.Delete("/favourites/{locationID}", s.handleRemoveFavourite)
			})
		})
	})

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
// Idle sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", zap.String("addr", s.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server exited gracefully")
	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	if s.SessionIdle <= 0 {
		return
	}
	every := s.SessionIdle / 4
	if every < time.Minute {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessions.Sweep(s.SessionIdle)
		}
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
