package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"study-buddy/internal/logger"
	"study-buddy/internal/models"
	"study-buddy/internal/services"
)

// StatsSource reports the generation history. *services.HistoryService implements it.
type StatsSource interface {
	Stats(ctx context.Context) (*services.HistoryStats, error)
	Recent(ctx context.Context, limit int) ([]models.Generation, error)
}

// ServerConfig lists the collaborators the HTTP layer is built from.
type ServerConfig struct {
	Generator *services.GenerationService
	PDF       *services.PDFService
	History   StatsSource
	Metrics   *Metrics
	Logger    *logger.Logger

	MaxPDFBytes        int64
	RateLimitPerMinute int
	AllowedOrigins     []string

	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP replace the
	// socket address. Enable it only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

type Server struct {
	router      chi.Router
	generator   *services.GenerationService
	pdf         *services.PDFService
	history     StatsSource
	metrics     *Metrics
	log         *logger.Logger
	jobs        *JobManager
	maxPDFBytes int64

	// running tracks asynchronous jobs so shutdown can wait for them.
	running sync.WaitGroup

	// jobCtx is the parent of every asynchronous job; Shutdown cancels it.
	jobCtx    context.Context
	cancelJob context.CancelFunc
}

func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		generator:   cfg.Generator,
		pdf:         cfg.PDF,
		history:     cfg.History,
		metrics:     cfg.Metrics,
		log:         cfg.Logger,
		jobs:        NewJobManager(),
		maxPDFBytes: cfg.MaxPDFBytes,
	}
	s.jobCtx, s.cancelJob = context.WithCancel(context.Background())
	if s.generator == nil {
		s.generator = services.NewGenerationService(nil, nil, cfg.Logger)
	}
	if s.pdf == nil {
		s.pdf = services.NewPDFService()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	if s.maxPDFBytes <= 0 {
		s.maxPDFBytes = 12 << 20
	}
	s.routes(cfg)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(cfg ServerConfig) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors(cfg.AllowedOrigins))
	r.Use(s.metrics.Middleware)

	r.Get("/metrics", s.metrics.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/generations/stats", s.handleStats)
		r.Get("/generate/jobs/{jobID}", s.handleJobStatus)

		r.Group(func(r chi.Router) {
			if cfg.RateLimitPerMinute > 0 {
				r.Use(newRateLimiter(cfg.RateLimitPerMinute, time.Minute).Middleware)
			}
			r.Post("/generate", s.handleGenerate)
			r.Post("/generate/jobs", s.handleCreateJob)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "backend": s.generator.BackendName()})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenerateRequest(w, r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	artifact, err := s.generator.Generate(r.Context(), req)
	s.metrics.observeGeneration(req.Mode, s.generator.BackendName(), err)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenerateRequest(w, r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	jobID, snapshot := s.jobs.CreateJob(req.Mode, req.Count)
	s.running.Add(1)
	go s.runGenerationJob(s.jobCtx, jobID, req)

	writeJSON(w, http.StatusAccepted, snapshot)
}

func (s *Server) runGenerationJob(ctx context.Context, jobID string, req services.GenerateRequest) {
	defer s.running.Done()
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("generation job panicked", "job_id", jobID, "panic", rec)
			s.jobs.MarkFailed(jobID, errors.New("internal error"))
		}
	}()

	s.jobs.MarkProcessing(jobID)
	artifact, err := s.generator.Generate(ctx, req)
	s.metrics.observeGeneration(req.Mode, s.generator.BackendName(), err)
	if err != nil {
		s.jobs.MarkFailed(jobID, err)
		return
	}
	s.jobs.MarkCompleted(jobID, artifact)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.GetJob(chi.URLParam(r, "jobID"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not enabled")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "recent must be between 0 and 100")
			return
		}
		limit = n
	}

	stats, err := s.history.Stats(r.Context())
	if err != nil {
		s.log.Error("load generation stats", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	recent := []models.Generation{}
	if limit > 0 {
		if recent, err = s.history.Recent(r.Context(), limit); err != nil {
			s.log.Error("load recent generations", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats, "recent": recent})
}

// Wait blocks until running generation jobs finish or ctx ends.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown waits for running jobs until ctx ends, then cancels whatever is
// left so those jobs fail instead of outliving the process.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Wait(ctx)
	s.cancelJob()
	return err
}

// writeRequestError answers a request that failed before generation started.
func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, MsgPDFTooLarge)
		return
	}
	s.writeGenerationError(w, err)
}

func (s *Server) writeGenerationError(w http.ResponseWriter, err error) {
	switch services.KindOf(err) {
	case services.KindInvalidInput:
		writeError(w, http.StatusBadRequest, err.Error())
	case services.KindUpstream, services.KindUpstreamFormat, services.KindUpstreamParse:
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error("generate", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
