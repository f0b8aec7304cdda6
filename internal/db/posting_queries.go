package db

import (
	"context"
	"fmt"

	"github.com/remotestaffing/matchpoint/internal/posting"
)

// InsertPostingIfAbsent performs the conditional insert for the posting
// store: the row is written only when no row with the same posting_id exists.
// Returns true when a row was written, false when the key already existed.
// Atomicity of the existence check is Postgres's ON CONFLICT semantics.
func (p *Pool) InsertPostingIfAbsent(ctx context.Context, item posting.Posting) (bool, error) {
	const q = `
INSERT INTO staffing.postings (
	posting_id, source, title, company, city, country, location,
	description, apply_url, salary_min, salary_max, lat, lng,
	quality_score, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (posting_id) DO NOTHING
`

	tag, err := p.Exec(ctx, q,
		item.PostingID,
		item.Source,
		item.Title,
		item.Company,
		item.City,
		item.Country,
		item.Location,
		item.Description,
		item.ApplyURL,
		item.SalaryMin,
		item.SalaryMax,
		item.Lat,
		item.Lng,
		item.QualityScore,
		item.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert posting %s: %w", item.PostingID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountPostings reports the size of the posting store. Used by the health
// command.
func (p *Pool) CountPostings(ctx context.Context) (int64, error) {
	var count int64
	if err := p.QueryRow(ctx, `SELECT COUNT(*) FROM staffing.postings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count postings: %w", err)
	}
	return count, nil
}
