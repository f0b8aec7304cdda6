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
	"github.com/remotestaffing/matchpoint/internal/ingest"
	"github.com/remotestaffing/matchpoint/internal/scheduler"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	startupTimeout := fs.Duration("startup-timeout", 30*time.Second, "Timeout for connecting to backing stores")
	query := fs.String("query", ingest.DefaultQuery, "Search term for scheduled ingestion runs")

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

	ingestSvc := rt.buildIngestService()

	sched := scheduler.New(ingestSvc, *query, rt.cfg.IngestIntervalHours, rt.logger)
	if err := sched.Start(ctx); err != nil {
		return fatalf("Scheduler failed: %v", err)
	}
	defer sched.Stop()

	server := httpapi.NewServer(
		ingestSvc,
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
