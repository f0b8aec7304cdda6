// Package source implements the upstream job-board fetchers. Each fetcher
// returns raw postings for a search query; a fetcher failure is isolated by
// the ingest service and never aborts the run.
package source

import (
	"context"

	"github.com/remotestaffing/matchpoint/internal/posting"
)

const (
	NameAdzuna = "adzuna"
	NameJooble = "jooble"
	NameDirect = "direct"
)

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]posting.Raw, error)
}
