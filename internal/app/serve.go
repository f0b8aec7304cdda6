package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/remotestaffing/matchpoint/internal/candidate"
	"github.com/remotestaffing/matchpoint/internal/cli"
	"github.com/remotestaffing/matchpoint/internal/httpapi"
	"github.com/remotestaffing/matchpoint/internal/notify"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	startupTimeout := fs.Duration("startup-timeout", 30*time.Second, "Timeout for connecting to backing stores")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, *startupTimeout)
	rt, err := newRuntime(startupCtx)
	cancel()
	if err != nil {
		return fatalf("Failed to start: %v", err)
	}
	defer rt.Close()

	publisher, closeRedis := buildPublisher(ctx, rt)
	defer closeRedis()

	server := httpapi.NewServer(
		rt.buildIngestService(),
		rt.buildMatchService(),
		candidate.NewService(rt.pool, publisher, rt.logger),
		rt.pool,
		rt.logger,
		httpapi.Options{Host: rt.cfg.HTTPHost, Port: rt.cfg.HTTPPort},
	)

	if err := server.Start(ctx); err != nil {
		return fatalf("HTTP server failed: %v", err)
	}
	return 0
}

// buildPublisher connects the Redis notifier when REDIS_URL is configured.
// Without it candidate uploads still work, just without the
// CandidateUploaded event.
func buildPublisher(ctx context.Context, rt *runtime) (*notify.Publisher, func()) {
	if rt.cfg.RedisURL == "" {
		rt.logger.Warn().Msg("REDIS_URL not set, candidate-uploaded events disabled")
		return nil, func() {}
	}

	rdb, err := notify.NewRedisClient(ctx, rt.cfg.RedisURL)
	if err != nil {
		rt.logger.Warn().Err(err).Msg("redis unavailable, candidate-uploaded events disabled")
		return nil, func() {}
	}
	return notify.NewPublisher(rdb, rt.logger), func() { _ = rdb.Close() }
}
