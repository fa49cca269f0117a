// Package api exposes the simulation workflow and record history over HTTP.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/auth"
	"prouni-simulator/internal/common/config"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/engine"
	"prouni-simulator/internal/simulation"
	"prouni-simulator/internal/store"
)

const defaultMaxSessions = 1000

// CourseCatalog reads the backend's course list. backend.Client satisfies it.
type CourseCatalog interface {
	ListCourses(ctx context.Context, skip, limit int) ([]backend.Course, error)
	GetCourse(ctx context.Context, id int) (*backend.Course, error)
}

type session struct {
	orch     *simulation.Orchestrator
	lastUsed time.Time
}

// Server holds one orchestrator per owner so each candidate runs their own
// form, processing and result flow. At most maxSessions are kept; idle ones
// are evicted first.
type Server struct {
	ownerHeader string
	maxSessions int
	engine      engine.Engine
	store       *store.RecordStore
	courses     CourseCatalog
	logger      logger.Logger
	errHandler  *apperrors.ErrorHandler
	orchOpts    []simulation.Option
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewServer(cfg config.ServerConfig, e engine.Engine, st *store.RecordStore, log logger.Logger, opts ...simulation.Option) *Server {
	header := cfg.OwnerHeader
	if header == "" {
		header = "X-Candidate-ID"
	}
	limit := cfg.MaxSessions
	if limit <= 0 {
		limit = defaultMaxSessions
	}
	return &Server{
		ownerHeader: header,
		maxSessions: limit,
		engine:      e,
		store:       st,
		logger:      log,
		errHandler:  apperrors.NewErrorHandler(log),
		orchOpts:    opts,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
}

// WithCourses mounts /courses backed by c.
func (s *Server) WithCourses(c CourseCatalog) *Server {
	s.courses = c
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.identity)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/simulation", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Post("/", s.handleSubmit)
		r.Post("/restart", s.handleRestart)
	})

	r.Route("/records", func(r chi.Router) {
		r.Get("/", s.handleListRecords)
		r.Get("/{id}", s.handleGetRecord)
		r.Delete("/{id}", s.handleDeleteRecord)
	})

	if s.courses != nil {
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleListCourses)
			r.Get("/{id}", s.handleGetCourse)
		})
	}

	return r
}

// orchestrator returns the caller's orchestrator, creating it on first use.
// Callers without an identity share the local owner's.
func (s *Server) orchestrator(r *http.Request) *simulation.Orchestrator {
	owner := auth.LocalOwner
	if id, ok := auth.FromContext(r.Context()); ok {
		owner = id.Owner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[owner]; ok {
		sess.lastUsed = now
		return sess.orch
	}

	if len(s.sessions) >= s.maxSessions {
		s.evictLocked()
	}

	o := simulation.NewOrchestrator(s.engine, s.store, s.logger.WithFields(map[string]interface{}{
		"owner": owner,
	}), s.orchOpts...)
	s.sessions[owner] = &session{orch: o, lastUsed: now}
	return o
}

// evictLocked drops every orchestrator sitting on an empty form. If that
// frees nothing, the least recently used one not processing goes. s.mu
// must be held.
func (s *Server) evictLocked() {
	for owner, sess := range s.sessions {
		if sess.orch.State() == simulation.StateForm {
			delete(s.sessions, owner)
		}
	}
	if len(s.sessions) < s.maxSessions {
		return
	}

	var (
		oldest string
		at     time.Time
	)
	for owner, sess := range s.sessions {
		if sess.orch.State() == simulation.StateProcessing {
			continue
		}
		if oldest == "" || sess.lastUsed.Before(at) {
			oldest, at = owner, sess.lastUsed
		}
	}
	if oldest != "" {
		delete(s.sessions, oldest)
	}
}
