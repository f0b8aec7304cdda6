// Package httpapi exposes the ingestion, candidate, and matching operations
// over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/candidate"
	"github.com/remotestaffing/matchpoint/internal/ingest"
	"github.com/remotestaffing/matchpoint/internal/match"
	"github.com/remotestaffing/matchpoint/internal/posting"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// IngestRunner triggers ingestion runs and single direct uploads.
type IngestRunner interface {
	Run(ctx context.Context, query string) (ingest.Result, error)
	IngestOne(ctx context.Context, raw posting.Raw) (string, bool, error)
}

// MatchRunner triggers a matching run for one candidate.
type MatchRunner interface {
	Run(ctx context.Context, candidateID string) (match.Result, error)
}

// CandidateCreator stores an uploaded resume.
type CandidateCreator interface {
	Create(ctx context.Context, input candidate.Input) (candidate.Created, error)
}

// Pinger reports store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	ingest     IngestRunner
	match      MatchRunner
	candidates CandidateCreator
	store      Pinger
	logger     zerolog.Logger
	opts       Options
}

func NewServer(ingestSvc IngestRunner, matchSvc MatchRunner, candidates CandidateCreator, store Pinger, logger zerolog.Logger, opts Options) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		ingest:     ingestSvc,
		match:      matchSvc,
		candidates: candidates,
		store:      store,
		logger:     logger.With().Str("component", "httpapi").Logger(),
		opts:       opts,
	}
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()
	e.Server.ReadTimeout = s.opts.ReadTimeout
	e.Server.WriteTimeout = s.opts.WriteTimeout

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()
	s.logger.Info().Str("addr", addr).Msg("http server started")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)
	e.POST("/api/candidates", s.handleCandidateUpload)
	e.POST("/api/postings", s.handlePostingUpload)
	e.POST("/api/ingest/runs", s.handleIngestRun)
	e.POST("/api/match/runs", s.handleMatchRun)

	return e
}

func (s *Server) handleHealth(c echo.Context) error {
	if s.store != nil {
		if err := s.store.Ping(c.Request().Context()); err != nil {
			return fail(c, http.StatusServiceUnavailable, "database unreachable", nil)
		}
	}
	return success(c, map[string]string{"status": "ok"})
}
