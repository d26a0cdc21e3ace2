// Package devserver is an in-memory translation backend for local use and
// tests. It serves the same HTTP contract as the real server and translates
// cells with a deterministic Translator.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

var errDatasetNotFound = errors.New("dataset not found")

// Options tune the simulated translation workers.
type Options struct {
	// ItemDelay is the time spent on each cell.
	ItemDelay time.Duration
	// PauseCheck is how often a paused task checks for resume.
	PauseCheck time.Duration
	// Translator converts cell values. Defaults to PrefixTranslator("vi").
	Translator Translator
	// SourceColumn is read when a targeted cell is empty. Defaults to "en".
	SourceColumn string
}

// Server is the HTTP server for the dev backend.
type Server struct {
	store   *Store
	tracker *Tracker
	router  *chi.Mux
	log     zerolog.Logger

	mu     sync.Mutex
	server *http.Server

	itemDelay  time.Duration
	pauseCheck time.Duration
	translate  Translator
	source     string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a server backed by store.
func New(store *Store, opts Options, logger zerolog.Logger) *Server {
	if opts.PauseCheck <= 0 {
		opts.PauseCheck = 50 * time.Millisecond
	}
	if opts.Translator == nil {
		opts.Translator = PrefixTranslator("vi")
	}
	if opts.SourceColumn == "" {
		opts.SourceColumn = "en"
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		store:      store,
		tracker:    NewTracker(),
		router:     chi.NewRouter(),
		log:        logger,
		itemDelay:  opts.ItemDelay,
		pauseCheck: opts.PauseCheck,
		translate:  opts.Translator,
		source:     opts.SourceColumn,
		ctx:        ctx,
		cancel:     cancel,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Post("/translate", s.handleTranslate)
	s.router.Get("/progress/{taskID}", s.handleProgress)
	s.router.Post("/pause/{taskID}", s.handlePause)
	s.router.Post("/resume/{taskID}", s.handleResume)
	s.router.Post("/undo/{datasetID}", s.handleUndo)
	s.router.Get("/dataset/{datasetID}", s.handleDataset)
	s.router.Get("/export/{datasetID}", s.handleExport)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.log.Info().Str("addr", addr).Msg("dev server listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the workers and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Close()

	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Close stops every running task and waits for the workers to exit.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
