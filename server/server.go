// Package server serves the scanner web application and exposes a server side
// export endpoint for clients that cannot build the archives themselves.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/esimov/docscan/config"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server is the http server of the scanner.
type Server struct {
	address   string
	root      string
	maxUpload atomic.Int64
	quality   atomic.Int32
	settings  atomic.Pointer[settings]

	logger *logrus.Logger
	router *mux.Router
	now    func() time.Time
}

// New creates a server from the configuration.
func New(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	root, err := filepath.Abs(cfg.Server.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root directory: %w", err)
	}
	s := &Server{
		address: cfg.Server.Address,
		root:    root,
		logger:  logger,
		now:     time.Now,
	}
	s.Reload(cfg)
	s.routes()

	return s, nil
}

// Reload applies the settings that can change while the server is running:
// the export quality, the upload limit, the scanner defaults and the log level.
// The address and the root directory are fixed at creation.
func (s *Server) Reload(cfg *config.Config) {
	s.quality.Store(int32(cfg.Export.Quality))
	s.maxUpload.Store(cfg.Server.MaxUpload << 20)
	s.settings.Store(newSettings(cfg))

	level := logrus.InfoLevel
	if cfg.Logging.Debug {
		level = logrus.DebugLevel
	}
	s.logger.SetLevel(level)
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/settings", s.handleSettings).Methods(http.MethodGet)
	r.HandleFunc("/api/export/{format:zip|pdf}", s.handleExport).Methods(http.MethodPost)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.root))).Methods(http.MethodGet, http.MethodHead)

	s.router = r
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until the context is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"root":    s.root,
			"address": s.address,
		}).Info("serving scanner")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// statusWriter records the status code written by the wrapped handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.WithFields(logrus.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"url":      r.URL.String(),
			"status":   sw.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}
