package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/remotestaffing/matchpoint/internal/cli"
	"github.com/remotestaffing/matchpoint/internal/ingest"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	query := fs.String("query", ingest.DefaultQuery, "Search term sent to each job source")

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

	result, err := rt.buildIngestService().Run(ctx, *query)
	if err != nil {
		return fatalf("Ingestion run failed: %v", err)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fatalf("Encode result: %v", err)
	}
	fmt.Println(string(encoded))
	return 0
}
