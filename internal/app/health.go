package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/remotestaffing/matchpoint/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rt, err := newRuntime(ctx)
	if err != nil {
		return fatalf("Failed to start: %v", err)
	}
	defer rt.Close()

	if err := rt.pool.Ping(ctx); err != nil {
		return fatalf("Database ping failed: %v", err)
	}

	postings, err := rt.pool.CountPostings(ctx)
	if err != nil {
		return fatalf("Posting count failed: %v", err)
	}

	fmt.Printf("database=ok postings=%d\n", postings)
	return 0
}
