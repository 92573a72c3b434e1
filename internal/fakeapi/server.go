// Package fakeapi is an in-memory stand-in for the study plan API. It
// serves fixture data with the same endpoints and payload shapes, and lets
// tests inject failures and count calls.
package fakeapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/leetplan/plansync/internal/models"
)

// Server is the in-memory API server
type Server struct {
	router *chi.Mux
	data   *data
	clock  func() time.Time
	apiKey string

	mu        sync.Mutex
	failures  map[string]int
	malformed bool
	calls     map[string]int
}

// Option configures the server
type Option func(*Server)

// WithClock sets the source of "today"
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.clock = now
	}
}

// WithAPIKey requires every /api request to carry the key
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// NewServer creates a server seeded from a fixture
func NewServer(f *Fixture, opts ...Option) *Server {
	s := &Server{
		clock:    time.Now,
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = newData(f, s.Today())
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// Today returns the server's current date
func (s *Server) Today() models.Date {
	return models.NewDate(s.clock())
}

// StartDate returns the plan start date
func (s *Server) StartDate() models.Date {
	return s.data.startDate
}

// FailOn makes every request matching method and path answer with status
// until cleared.
func (s *Server) FailOn(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// ClearFailures removes every injected failure
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]int)
}

// SetMalformedLists makes the review and deferred endpoints answer with a
// JSON object instead of an array.
func (s *Server) SetMalformedLists(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malformed = on
}

// Calls returns how many requests hit method and path
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// ResetCalls zeroes every call counter
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// Progress returns the stored progress record of a question
func (s *Server) Progress(questionID int) (Progress, bool) {
	return s.data.progressOf(questionID)
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.countingMiddleware)
		r.Use(s.authenticate)
		r.Use(s.failureMiddleware)

		r.Get("/current-day", s.handleCurrentDay)
		r.Get("/plan/{day}", s.handlePlan)
		r.Post("/progress", s.handleProgress)
		r.Post("/defer", s.handleDefer)
		r.Post("/undefer", s.handleUndefer)
		r.Get("/note/{id}", s.handleGetNote)
		r.Post("/note/{id}", s.handleSaveNote)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/review", s.handleReview)
		r.Get("/deferred", s.handleDeferred)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
