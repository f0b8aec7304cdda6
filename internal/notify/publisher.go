// Package notify publishes domain events over Redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/globaltime"
)

// CandidateUploadedChannel carries one message per successful candidate
// creation; the matching pipeline subscribes to it.
const CandidateUploadedChannel = "matchpoint:candidate-uploaded"

type candidateUploadedEvent struct {
	Event       string `json:"event"`
	CandidateID string `json:"candidate_id"`
	EmittedAt   string `json:"emitted_at"`
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Publisher emits events to Redis. A nil Publisher is a no-op, so callers
// can run without Redis configured.
type Publisher struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

func NewPublisher(rdb *redis.Client, logger zerolog.Logger) *Publisher {
	return &Publisher{
		rdb:    rdb,
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

func (p *Publisher) CandidateUploaded(ctx context.Context, candidateID string) error {
	if p == nil || p.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(candidateUploadedEvent{
		Event:       "CandidateUploaded",
		CandidateID: candidateID,
		EmittedAt:   globaltime.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal candidate-uploaded event: %w", err)
	}

	if err := p.rdb.Publish(ctx, CandidateUploadedChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish candidate-uploaded: %w", err)
	}

	p.logger.Debug().Str("candidate_id", candidateID).Msg("candidate-uploaded event published")
	return nil
}
