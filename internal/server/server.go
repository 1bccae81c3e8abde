package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"bartnow/internal/config"
	"bartnow/internal/handler"
	"bartnow/internal/realtime"
	"bartnow/internal/session"
	"bartnow/web"
)

// Server is the HTTP server for Bart Now.
type Server struct {
	mux          *http.ServeMux
	cfg          *config.Config
	logger       *slog.Logger
	cookieSecret []byte
}

// New creates a new Server with all routes registered.
func New(cfg *config.Config, sessions *session.Store, rt *realtime.Store, logger *slog.Logger) (*Server, error) {
	staticFS, err := fs.Sub(web.StaticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("static files: %w", err)
	}
	h, err := handler.New(sessions, rt, staticFS, cfg, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s := &Server{mux: mux, cfg: cfg, logger: logger, cookieSecret: h.CookieSecret()}

	// Static files served from embedded FS, versioned URLs get immutable caching
	fileServer := http.FileServer(http.FS(staticFS))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticCacheHandler(fileServer)))

	// Pages
	mux.HandleFunc("GET /", h.Home)
	mux.HandleFunc("GET /stations/{name}", h.StationDetail)
	mux.HandleFunc("POST /stations/{name}/role", h.StationRole)
	mux.HandleFunc("POST /reset", h.Reset)

	// Map events
	mux.HandleFunc("GET /api/state", h.State)
	mux.HandleFunc("POST /api/search", h.Search)
	mux.HandleFunc("POST /api/search/cancel", h.SearchCancel)
	mux.HandleFunc("POST /api/stations/{name}/tap", h.Tap)
	mux.HandleFunc("POST /api/selection/{role}", h.ChooseRole)
	mux.HandleFunc("POST /api/reset", h.APIReset)

	// PWA
	mux.HandleFunc("GET /manifest.json", h.Manifest)

	return s, nil
}

// Handler returns the routes wrapped in middleware.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux, s.logger, s.cookieSecret, s.cfg.SessionTTL)
}

// ListenAndServe serves until ctx is cancelled, then drains open requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
