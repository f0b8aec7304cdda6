package db

import (
	"context"
	"fmt"
	"time"
)

// NewCandidate carries the fields for a candidate insert. Role is set by the
// caller's service layer, never from request input.
type NewCandidate struct {
	FullName      string
	Email         string
	ResumeText    string
	Role          string
	RequestedRole string
}

// CreateCandidate inserts a new candidate row and returns the generated
// candidate_id and creation time.
func (p *Pool) CreateCandidate(ctx context.Context, candidate NewCandidate) (string, time.Time, error) {
	const q = `
INSERT INTO staffing.candidates (full_name, email, resume_text, role, requested_role)
VALUES ($1, $2, $3, $4, $5)
RETURNING candidate_id, created_at
`

	var (
		candidateID string
		createdAt   time.Time
	)
	err := p.QueryRow(ctx, q,
		candidate.FullName,
		candidate.Email,
		candidate.ResumeText,
		candidate.Role,
		candidate.RequestedRole,
	).Scan(&candidateID, &createdAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert candidate: %w", err)
	}
	return candidateID, createdAt, nil
}

// GetCandidateResume fetches the resume text for a candidate. Returns
// ErrNoRows when the candidate does not exist; an existing candidate with
// blank resume text is the caller's distinction to make.
func (p *Pool) GetCandidateResume(ctx context.Context, candidateID string) (string, error) {
	const q = `
SELECT resume_text
FROM staffing.candidates
WHERE candidate_id = $1
LIMIT 1
`

	var resumeText string
	if err := p.QueryRow(ctx, q, candidateID).Scan(&resumeText); err != nil {
		return "", err
	}
	return resumeText, nil
}
