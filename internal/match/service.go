package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/db"
)

// Run-level precondition failures. Each aborts a single matching run and is
// reported as a structured error result, never a panic.
var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrResumeMissing     = errors.New("candidate has no resume text")
	ErrCorpusUnavailable = errors.New("embedding corpus is unavailable")
)

// TopMatchesReported is how many matches the run result surfaces,
// independent of the top-N persisted.
const TopMatchesReported = 10

// CandidateStore reads resume text by candidate id.
type CandidateStore interface {
	GetCandidateResume(ctx context.Context, candidateID string) (string, error)
}

// ScoreStore merges ranked scores for a candidate.
type ScoreStore interface {
	UpsertMatchScores(ctx context.Context, candidateID string, scores []db.MatchUpsert) (int, error)
}

// CorpusLoader fetches the full reference corpus for one run.
type CorpusLoader interface {
	Load(ctx context.Context) ([]Reference, error)
}

// Result is the visible outcome of one matching run.
type Result struct {
	CandidateID    string  `json:"candidate_id"`
	MatchesWritten int     `json:"matches_written"`
	TopMatches     []Score `json:"top_matches"`
}

type Service struct {
	candidates CandidateStore
	scores     ScoreStore
	corpus     CorpusLoader
	embedder   Embedder
	topN       int
	logger     zerolog.Logger
}

func NewService(candidates CandidateStore, scores ScoreStore, corpus CorpusLoader, embedder Embedder, topN int, logger zerolog.Logger) *Service {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Service{
		candidates: candidates,
		scores:     scores,
		corpus:     corpus,
		embedder:   embedder,
		topN:       topN,
		logger:     logger.With().Str("component", "match").Logger(),
	}
}

// Run executes one matching run: resume lookup, corpus load, ranking, score
// upsert. Safe to repeat; a re-run overwrites the candidate's scores in
// place.
func (s *Service) Run(ctx context.Context, candidateID string) (Result, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return Result{}, fmt.Errorf("candidate_id is required: %w", ErrCandidateNotFound)
	}

	resumeText, err := s.candidates.GetCandidateResume(ctx, candidateID)
	if err != nil {
		if db.IsNoRows(err) {
			return Result{}, fmt.Errorf("candidate %s: %w", candidateID, ErrCandidateNotFound)
		}
		return Result{}, fmt.Errorf("fetch resume for %s: %w", candidateID, err)
	}
	if strings.TrimSpace(resumeText) == "" {
		return Result{}, fmt.Errorf("candidate %s: %w", candidateID, ErrResumeMissing)
	}

	corpus, err := s.corpus.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load corpus: %v: %w", err, ErrCorpusUnavailable)
	}
	if len(corpus) == 0 {
		return Result{}, fmt.Errorf("corpus object has no rows: %w", ErrCorpusUnavailable)
	}
	s.logger.Info().Int("references", len(corpus)).Msg("corpus loaded")

	queryVector, err := s.embedder.Embed(ctx, resumeText)
	if err != nil {
		return Result{}, fmt.Errorf("embed resume: %w", err)
	}

	ranked, err := Rank(queryVector, corpus, s.topN)
	if err != nil {
		return Result{}, err
	}

	upserts := make([]db.MatchUpsert, len(ranked))
	for i, score := range ranked {
		upserts[i] = db.MatchUpsert{PostingID: score.ReferenceID, Score: score.MatchPercent}
	}
	written, err := s.scores.UpsertMatchScores(ctx, candidateID, upserts)
	if err != nil {
		return Result{}, fmt.Errorf("persist match scores: %w", err)
	}

	top := ranked
	if len(top) > TopMatchesReported {
		top = top[:TopMatchesReported]
	}

	s.logger.Info().
		Str("candidate_id", candidateID).
		Int("matches_written", written).
		Msg("matching run complete")

	return Result{
		CandidateID:    candidateID,
		MatchesWritten: written,
		TopMatches:     top,
	}, nil
}
