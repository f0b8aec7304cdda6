package db

import (
	"context"
	"fmt"
)

// MatchUpsert is one (posting_id, score) pair to merge for a candidate.
type MatchUpsert struct {
	PostingID string
	Score     float64
}

// UpsertMatchScores merges scores into staffing.match_scores keyed by
// (posting_id, candidate_id): existing rows are overwritten, missing rows
// inserted. The whole call runs in one transaction so the reported count
// reflects an all-or-nothing write, and repeated calls with the same input
// leave the store unchanged.
func (p *Pool) UpsertMatchScores(ctx context.Context, candidateID string, scores []MatchUpsert) (int, error) {
	if len(scores) == 0 {
		return 0, nil
	}

	const q = `
INSERT INTO staffing.match_scores (posting_id, candidate_id, score, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (posting_id, candidate_id)
DO UPDATE SET score = EXCLUDED.score, updated_at = now()
`

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin match-score transaction: %w", err)
	}

	for _, score := range scores {
		if _, err := tx.Exec(ctx, q, score.PostingID, candidateID, score.Score); err != nil {
			_ = tx.Rollback(ctx)
			return 0, fmt.Errorf("upsert match score (%s, %s): %w", score.PostingID, candidateID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit match scores: %w", err)
	}
	return len(scores), nil
}
