package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/estimate"
	"github.com/couchcryptid/hail-damage-service/internal/observability"
	"github.com/couchcryptid/hail-damage-service/internal/pipeline"
)

// writeTimeout covers monitoring routes, which wait on the text-generation model.
const writeTimeout = 2 * time.Minute

// estimateIDPattern matches archive ids and keeps /estimates/roof and
// /estimates/auto out of the lookup route.
const estimateIDPattern = "{id:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}}"

// HistoryReader reads the hail history store.
type HistoryReader interface {
	List(ctx context.Context, f domain.EventFilter) ([]domain.HailEvent, error)
	Categories(ctx context.Context) ([]domain.HailCategory, error)
}

// Monitor runs monitoring passes and period searches on demand.
type Monitor interface {
	MonitorRecent(ctx context.Context) (pipeline.Result, error)
	SearchRange(ctx context.Context, start, end, region string) (pipeline.Result, error)
	SearchPeriod(ctx context.Context, start, end, language string) (domain.PeriodSearch, error)
}

// EstimateArchive stores computed estimates for later retrieval.
type EstimateArchive interface {
	Save(ctx context.Context, rec estimate.Record) (estimate.Record, error)
	Get(ctx context.Context, id string) (estimate.Record, error)
}

// Deps are the collaborators behind the API routes. History, Monitor and
// Archive may be nil; their routes then answer 503.
type Deps struct {
	Estimator *estimate.Estimator
	History   HistoryReader
	Monitor   Monitor
	Archive   EstimateArchive
	Metrics   *observability.Metrics
}

// Server exposes the estimate, hail history and monitoring API alongside
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	estimator *estimate.Estimator
	history   HistoryReader
	monitor   Monitor
	archive   EstimateArchive
	metrics   *observability.Metrics
}

// NewServer creates an HTTP server with the health routes and the /v1 API.
func NewServer(addr string, ready sharedobs.ReadinessChecker, deps Deps, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		logger:    logger,
		estimator: deps.Estimator,
		history:   deps.History,
		monitor:   deps.Monitor,
		archive:   deps.Archive,
		metrics:   deps.Metrics,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/estimates/roof", s.handleRoofEstimate)
		r.Post("/estimates/auto", s.handleAutoEstimate)
		r.Get("/estimates/"+estimateIDPattern, s.handleGetEstimate)

		r.Get("/hail-events", s.handleListEvents)
		r.Get("/hail-events/statistics", s.handleStatistics)
		r.Get("/hail-categories", s.handleCategories)

		r.Post("/monitor/run", s.handleMonitorRun)
		r.Post("/monitor/search", s.handleMonitorSearch)
		r.Post("/hail-search", s.handleHailSearch)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// writeJSON encodes v before committing the status so an unencodable value
// becomes a 500 instead of a 200 with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    string(domain.KindUnknown),
			Message: "response could not be encoded",
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
