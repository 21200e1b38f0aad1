// Package api provides the HTTP JSON interface to the playoff states.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	seasonrepos "github.com/mpapenbr/gp-playoffs/pkg/repository/season"
	playoffsvc "github.com/mpapenbr/gp-playoffs/pkg/service/playoff"
	"github.com/mpapenbr/gp-playoffs/pkg/utils"
)

var (
	errUnauthorized = errors.New("unauthorized")
	errInvalidYear  = errors.New("invalid season year")
)

// PlayoffService is the part of the playoff service used by the api
type PlayoffService interface {
	Seasons(ctx context.Context) ([]int, error)
	State(ctx context.Context, year int) (*model.PlayoffState, error)
	Classification(ctx context.Context, year int) ([]model.DriverStanding, error)
	DriverSummary(ctx context.Context, year int, driverID string) (*model.DriverSummary, error)
	Sync(ctx context.Context, year int) (*model.SyncRun, error)
	LastSync(ctx context.Context, year int) (*model.SyncRun, error)
	DeleteSeason(ctx context.Context, year int) error
}

type (
	Option func(*Server)
	Server struct {
		svc            PlayoffService
		adminTokenHash string
		metrics        *Metrics
		stream         StateSubscriber
		fallback       StateSource
		timeout        time.Duration
		l              *log.Logger
	}
	errorResponse struct {
		Error string `json:"error"`
	}
)

// WithAdminToken enables the admin endpoints for requests carrying the token
func WithAdminToken(token string) Option {
	return func(s *Server) {
		if token != "" {
			s.adminTokenHash = utils.HashToken(token)
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.l = l
	}
}

func NewServer(svc PlayoffService, opts ...Option) *Server {
	ret := &Server{
		svc:     svc,
		timeout: 2 * time.Minute,
		l:       log.Default().Named("api"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.metrics == nil {
		ret.metrics = NewMetrics()
	}
	return ret
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metrics.middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1/seasons", func(r chi.Router) {
		r.With(middleware.Timeout(s.timeout)).Get("/", s.handleSeasons)
		r.Route("/{year}", func(r chi.Router) {
			// long-lived, not subject to the request timeout
			r.Get("/playoffs/stream", s.handleStream)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(s.timeout))
				r.Get("/playoffs", s.handlePlayoffs)
				r.Get("/standings", s.handleStandings)
				r.Get("/classification", s.handleClassification)
				r.Get("/drivers/{driverID}", s.handleDriver)
				r.Get("/sync", s.handleLastSync)
				r.Group(func(r chi.Router) {
					r.Use(s.requireAdmin)
					r.Post("/sync", s.handleSync)
					r.Delete("/", s.handleDelete)
				})
			})
		})
	})
	return newCORS().Handler(r)
}

func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.svc.Seasons(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, seasons)
}

func (s *Server) handlePlayoffs(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, state.RegularSeasonStandings)
}

func (s *Server) handleClassification(w http.ResponseWriter, r *http.Request) {
	year, ok := s.year(w, r)
	if !ok {
		return
	}
	ret, err := s.svc.Classification(r.Context(), year)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ret)
}

func (s *Server) handleDriver(w http.ResponseWriter, r *http.Request) {
	year, ok := s.year(w, r)
	if !ok {
		return
	}
	ret, err := s.svc.DriverSummary(r.Context(), year, chi.URLParam(r, "driverID"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ret)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	year, ok := s.year(w, r)
	if !ok {
		return
	}
	run, err := s.svc.Sync(r.Context(), year)
	s.metrics.syncDone(year, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, run)
}

func (s *Server) handleLastSync(w http.ResponseWriter, r *http.Request) {
	year, ok := s.year(w, r)
	if !ok {
		return
	}
	run, err := s.svc.LastSync(r.Context(), year)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, run)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	year, ok := s.year(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteSeason(r.Context(), year); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) (*model.PlayoffState, bool) {
	year, ok := s.year(w, r)
	if !ok {
		return nil, false
	}
	state, err := s.currentState(r.Context(), year)
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	return state, true
}

func (s *Server) year(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1950 || year > 2100 {
		s.writeError(w, r, http.StatusBadRequest, errInvalidYear)
		return 0, false
	}
	return year, true
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, seasonrepos.ErrSeasonNotFound),
		errors.Is(err, playoffsvc.ErrDriverNotFound),
		errors.Is(err, playoffsvc.ErrNoSyncRun):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, playoffsvc.ErrNoFetcher):
		s.writeError(w, r, http.StatusNotImplemented, err)
	default:
		s.l.Error("request failed",
			log.String("path", r.URL.Path),
			log.String("requestId", middleware.GetReqID(r.Context())),
			log.ErrorField(err))
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	s.writeJSON(w, r, code, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.Warn("could not write response",
			log.String("path", r.URL.Path),
			log.ErrorField(err))
	}
}

func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Type", "X-Request-Id"},
	})
}
