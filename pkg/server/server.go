package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/operator-framework/usage-metering/pkg/handler"
	"github.com/operator-framework/usage-metering/pkg/usage"
)

// DefaultSchedule runs five minutes past every hour, giving the metering API
// time to record the usage of the hour that just ended.
const DefaultSchedule = "0 5 * * * *"

// Invoker runs one reconciliation.
type Invoker interface {
	Invoke(ctx context.Context) (*usage.RunSummary, handler.Response, error)
}

type Config struct {
	ListenAddr string
	Schedule   string
}

// Server invokes the handler on a cron schedule and exposes metrics, health
// checks and a manual trigger over HTTP. At most one invocation runs at a
// time.
type Server struct {
	logger  logrus.FieldLogger
	cfg     Config
	invoker Invoker

	group singleflight.Group

	mu sync.RWMutex
	// baseCtx is the context runs execute with, set by Run.
	baseCtx     context.Context
	lastSummary *usage.RunSummary
	lastErr     error
	lastRun     time.Time
}

func New(logger logrus.FieldLogger, cfg Config, invoker Invoker) *Server {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	return &Server{
		logger:  logger.WithField("component", "server"),
		cfg:     cfg,
		invoker: invoker,
		baseCtx: context.Background(),
	}
}

type invokeResult struct {
	summary *usage.RunSummary
	resp    handler.Response
}

// Trigger runs the handler unless a run is already in progress, in which case
// it joins that run. The run executes with the server's context; ctx only
// bounds how long the caller waits for it.
func (s *Server) Trigger(ctx context.Context) (*usage.RunSummary, handler.Response, error) {
	const key = "invoke"
	ch := s.group.DoChan(key, func() (interface{}, error) {
		runSummary, resp, err := s.invoker.Invoke(s.runContext())
		s.mu.Lock()
		s.lastSummary = runSummary
		s.lastErr = err
		s.lastRun = time.Now().UTC()
		s.mu.Unlock()
		return invokeResult{summary: runSummary, resp: resp}, err
	})

	select {
	case <-ctx.Done():
		return nil, handler.Response{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.Debugf("joined a run already in progress")
		}
		out := res.Val.(invokeResult)
		return out.summary, out.resp, res.Err
	}
}

func (s *Server) runContext() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseCtx
}

// Router returns the HTTP routes of the server.
func (s *Server) Router() chi.Router {
	router := chi.NewRouter()
	logger := s.logger.WithField("component", "api")
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: &requestLogger{logger}}))

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Get("/healthy", s.healthinessHandler)
	router.Get("/ready", s.readinessHandler)
	router.Get("/api/v1/runs/last", s.lastRunHandler)
	router.Post("/api/v1/run", s.runHandler)
	return router
}

// Run schedules the handler and serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	c := cron.New()
	err := c.AddFunc(s.cfg.Schedule, func() {
		if _, _, err := s.Trigger(ctx); err != nil {
			s.logger.WithError(err).Error("scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule '%s': %v", s.cfg.Schedule, err)
	}

	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Infof("HTTP server listening on %s", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server exited: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		s.logger.Infof("scheduling usage reconciliation with '%s'", s.cfg.Schedule)
		c.Start()
		<-gctx.Done()
		c.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type requestLogger struct {
	logrus.FieldLogger
}

func (l *requestLogger) Print(v ...interface{}) {
	l.FieldLogger.Info(v...)
}

type statusResponse struct {
	Status  string      `json:"status"`
	Details interface{} `json:"details,omitempty"`
}

func writeResponseAsJSON(logger logrus.FieldLogger, w http.ResponseWriter, status int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.WithError(err).Errorf("failed writing HTTP response")
	}
}

func (s *Server) healthinessHandler(w http.ResponseWriter, r *http.Request) {
	writeResponseAsJSON(s.logger, w, http.StatusOK, statusResponse{Status: "ok"})
}

// readinessHandler reports not ready while the last run failed.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	lastErr := s.lastErr
	s.mu.RUnlock()
	if lastErr != nil {
		writeResponseAsJSON(s.logger, w, http.StatusInternalServerError, statusResponse{
			Status:  "not ready",
			Details: lastErr.Error(),
		})
		return
	}
	writeResponseAsJSON(s.logger, w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) lastRunHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	runSummary := s.lastSummary
	s.mu.RUnlock()
	if runSummary == nil {
		writeResponseAsJSON(s.logger, w, http.StatusNotFound, statusResponse{Status: "no runs yet"})
		return
	}
	writeResponseAsJSON(s.logger, w, http.StatusOK, runSummary)
}

func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	_, resp, err := s.Trigger(r.Context())
	if r.Context().Err() != nil {
		s.logger.Infof("client went away before the run finished, the run continues")
		return
	}
	if err != nil {
		writeResponseAsJSON(s.logger, w, http.StatusInternalServerError, resp)
		return
	}
	writeResponseAsJSON(s.logger, w, resp.StatusCode, resp)
}
