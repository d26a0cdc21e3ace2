// Package profiler serves pprof and expvar endpoints for a running lingo
// process.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server exposes /debug/pprof/* and /debug/vars on localhost.
type Server struct {
	http     *http.Server
	listener net.Listener
	port     int
	log      zerolog.Logger
}

// New creates a profiler server for port. Port 0 picks a free port.
func New(port int, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/debug", middleware.Profiler())

	return &Server{
		http: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		port: port,
		log:  logger,
	}
}

// Start listens and serves in the background. It returns once the listener
// is bound, or with the error that prevented it.
func (s *Server) Start(context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	s.listener = listener

	s.log.Info().Str("addr", listener.Addr().String()).Msg("profiler listening")

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("profiler server stopped")
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down profiler")
	return s.http.Shutdown(ctx)
}
