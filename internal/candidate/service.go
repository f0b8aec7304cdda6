package candidate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/db"
)

// Store is the slice of the candidate store the service needs.
type Store interface {
	CreateCandidate(ctx context.Context, candidate db.NewCandidate) (string, time.Time, error)
}

// Notifier announces a successful candidate creation to downstream
// consumers (the matching trigger).
type Notifier interface {
	CandidateUploaded(ctx context.Context, candidateID string) error
}

// Input is a caller-supplied resume submission.
type Input struct {
	FullName      string `json:"name"`
	Email         string `json:"email"`
	ResumeText    string `json:"resume_text"`
	RequestedRole string `json:"requested_role"`
}

// Created is the visible result of an upload.
type Created struct {
	CandidateID   string    `json:"candidate_id"`
	Role          string    `json:"role"`
	RequestedRole string    `json:"requested_role"`
	CreatedAt     time.Time `json:"created_at"`
}

type Service struct {
	store    Store
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(store Store, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "candidate").Logger(),
	}
}

// Create stores a new candidate and fires CandidateUploaded exactly once on
// success. The stored role is always the baseline; only requested_role
// reflects caller input. A notification failure is logged, not surfaced.
func (s *Service) Create(ctx context.Context, input Input) (Created, error) {
	if strings.TrimSpace(input.FullName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.ResumeText) == "" {
		return Created{}, fmt.Errorf("name, email and resume_text are required")
	}

	requestedRole := NormalizeRequestedRole(input.RequestedRole)

	candidateID, createdAt, err := s.store.CreateCandidate(ctx, db.NewCandidate{
		FullName:      strings.TrimSpace(input.FullName),
		Email:         strings.TrimSpace(input.Email),
		ResumeText:    input.ResumeText,
		Role:          RoleBaseline,
		RequestedRole: requestedRole,
	})
	if err != nil {
		return Created{}, fmt.Errorf("create candidate: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.CandidateUploaded(ctx, candidateID); err != nil {
			s.logger.Warn().Err(err).Str("candidate_id", candidateID).Msg("candidate-uploaded notification failed")
		}
	}

	s.logger.Info().Str("candidate_id", candidateID).Str("requested_role", requestedRole).Msg("candidate created")

	return Created{
		CandidateID:   candidateID,
		Role:          RoleBaseline,
		RequestedRole: requestedRole,
		CreatedAt:     createdAt,
	}, nil
}
