// Package ingest runs the deduplicating ingestion pipeline: fetch from each
// configured source, drop in-run duplicates by content identity, and
// conditionally insert the remainder into the posting store.
package ingest

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/globaltime"
	"github.com/remotestaffing/matchpoint/internal/posting"
	"github.com/remotestaffing/matchpoint/internal/source"
)

// DefaultQuery is used when a run is triggered without a search term.
const DefaultQuery = "software engineer"

// Store is the slice of the posting store the pipeline needs.
type Store interface {
	InsertPostingIfAbsent(ctx context.Context, item posting.Posting) (bool, error)
}

// Result aggregates one ingestion run. Per-posting outcomes are not
// reported; failures and duplicates both land in Skipped.
type Result struct {
	Stored  int      `json:"jobs_stored"`
	Skipped int      `json:"jobs_skipped"`
	Sources []string `json:"sources"`
}

type Service struct {
	store    Store
	fetchers []source.Fetcher
	logger   zerolog.Logger
}

func NewService(store Store, fetchers []source.Fetcher, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		fetchers: fetchers,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// Run executes one ingestion pass for the given query. A failing fetcher
// contributes zero postings and the run continues; a failing insert skips
// that posting only. Repeating a run with the same upstream data stores
// nothing new.
func (s *Service) Run(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}

	result := Result{Sources: make([]string, 0, len(s.fetchers))}

	var raws []posting.Raw
	for _, fetcher := range s.fetchers {
		result.Sources = append(result.Sources, fetcher.Name())

		fetched, err := fetcher.Fetch(ctx, query)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", fetcher.Name()).Msg("source fetch failed")
			continue
		}
		s.logger.Info().Str("source", fetcher.Name()).Int("fetched", len(fetched)).Msg("source fetch complete")
		raws = append(raws, fetched...)
	}

	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		item := posting.FromRaw(raw, globaltime.UTC())

		if _, duplicate := seen[item.PostingID]; duplicate {
			result.Skipped++
			continue
		}
		seen[item.PostingID] = struct{}{}

		inserted, err := s.store.InsertPostingIfAbsent(ctx, item)
		if err != nil {
			result.Skipped++
			s.logger.Warn().Err(err).Str("posting_id", item.PostingID).Msg("posting insert failed")
			continue
		}
		if !inserted {
			result.Skipped++
			continue
		}
		result.Stored++
	}

	s.logger.Info().
		Str("query", query).
		Int("stored", result.Stored).
		Int("skipped", result.Skipped).
		Strs("sources", result.Sources).
		Msg("ingestion run complete")

	return result, nil
}

// IngestOne pushes a single directly-uploaded posting through the same
// identity, quality, and conditional-insert path as a full run.
func (s *Service) IngestOne(ctx context.Context, raw posting.Raw) (string, bool, error) {
	item := posting.FromRaw(raw, globaltime.UTC())
	inserted, err := s.store.InsertPostingIfAbsent(ctx, item)
	if err != nil {
		return "", false, err
	}
	return item.PostingID, inserted, nil
}
