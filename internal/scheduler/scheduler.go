// Package scheduler wires the cron job that periodically triggers an
// ingestion run.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/ingest"
)

type Scheduler struct {
	cron   *cron.Cron
	ingest *ingest.Service
	query  string
	spec   string
	logger zerolog.Logger
}

// New creates a Scheduler that runs ingestion every intervalHours hours for
// the given query.
func New(ingestSvc *ingest.Service, query string, intervalHours int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		ingest: ingestSvc,
		query:  query,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the job and starts the cron loop. One run fires
// immediately so a fresh deployment has data without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runIngestion(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("ingestion schedule started")

	go s.runIngestion(ctx)

	return nil
}

// Stop shuts the scheduler down; already-running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("ingestion schedule stopped")
}

func (s *Scheduler) runIngestion(ctx context.Context) {
	result, err := s.ingest.Run(ctx, s.query)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled ingestion run failed")
		return
	}
	s.logger.Info().
		Int("stored", result.Stored).
		Int("skipped", result.Skipped).
		Msg("scheduled ingestion run complete")
}
