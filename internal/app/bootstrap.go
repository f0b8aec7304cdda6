package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/config"
	"github.com/remotestaffing/matchpoint/internal/corpus"
	"github.com/remotestaffing/matchpoint/internal/db"
	"github.com/remotestaffing/matchpoint/internal/ingest"
	"github.com/remotestaffing/matchpoint/internal/logging"
	"github.com/remotestaffing/matchpoint/internal/match"
	"github.com/remotestaffing/matchpoint/internal/source"
)

// runtime bundles the pieces every command builds after flag parsing.
type runtime struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *db.Pool
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, pool: pool}, nil
}

func (r *runtime) Close() {
	if r != nil && r.pool != nil {
		_ = r.pool.Close()
	}
}

func (r *runtime) buildFetchers() []source.Fetcher {
	var fetchers []source.Fetcher
	if r.cfg.AdzunaAppID != "" && r.cfg.AdzunaAppKey != "" {
		fetchers = append(fetchers, source.NewAdzunaFetcher(
			r.cfg.AdzunaAppID, r.cfg.AdzunaAppKey, r.cfg.AdzunaCountryList(), r.logger))
	} else {
		r.logger.Warn().Msg("adzuna credentials missing, source disabled")
	}
	if r.cfg.JoobleAPIKey != "" {
		fetchers = append(fetchers, source.NewJoobleFetcher(r.cfg.JoobleAPIKey, r.logger))
	} else {
		r.logger.Warn().Msg("jooble api key missing, source disabled")
	}
	return fetchers
}

func (r *runtime) buildIngestService() *ingest.Service {
	return ingest.NewService(r.pool, r.buildFetchers(), r.logger)
}

func (r *runtime) buildMatchService() *match.Service {
	loader := corpus.NewHTTPLoader(r.cfg.CorpusBaseURL, r.cfg.CorpusKey, r.cfg.CorpusTimeout, r.logger)
	embedder := match.NewHTTPEmbedder(r.cfg.EmbeddingEndpoint, r.cfg.EmbeddingTimeout)
	return match.NewService(r.pool, r.pool, loader, embedder, r.cfg.MatchTopN, r.logger)
}

func fatalf(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return 1
}
