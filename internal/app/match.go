package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/remotestaffing/matchpoint/internal/cli"
)

func runMatch(args []string) int {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	candidateID := fs.String("candidate-id", "", "Candidate to match against the posting corpus")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if strings.TrimSpace(*candidateID) == "" {
		fmt.Fprintln(os.Stderr, "--candidate-id is required")
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

	result, err := rt.buildMatchService().Run(ctx, *candidateID)
	if err != nil {
		return fatalf("Matching run failed: %v", err)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fatalf("Encode result: %v", err)
	}
	fmt.Println(string(encoded))
	return 0
}
