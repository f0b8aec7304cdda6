package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/posting"
	"github.com/remotestaffing/matchpoint/internal/source"
)

type fakeStore struct {
	rows    map[string]posting.Posting
	failIDs map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]posting.Posting), failIDs: make(map[string]bool)}
}

func (s *fakeStore) InsertPostingIfAbsent(_ context.Context, item posting.Posting) (bool, error) {
	if s.failIDs[item.PostingID] {
		return false, errors.New("store unavailable")
	}
	if _, exists := s.rows[item.PostingID]; exists {
		return false, nil
	}
	s.rows[item.PostingID] = item
	return true, nil
}

type fakeFetcher struct {
	name    string
	results []posting.Raw
	err     error
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(context.Context, string) ([]posting.Raw, error) {
	return f.results, f.err
}

func rawPosting(src, title, company, city, country string) posting.Raw {
	return posting.Raw{
		Source:  src,
		Title:   &title,
		Company: &company,
		City:    &city,
		Country: &country,
	}
}

func TestRunStoresAndSkipsInBatchDuplicates(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &fakeFetcher{name: source.NameAdzuna, results: []posting.Raw{
		rawPosting("adzuna", "Engineer", "Acme", "Paris", "FR"),
		rawPosting("adzuna", "ENGINEER", "ACME", "PARIS", "FR"),
		rawPosting("adzuna", "Designer", "Acme", "Paris", "FR"),
	}}

	svc := NewService(store, []source.Fetcher{fetcher}, zerolog.Nop())
	result, err := svc.Run(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Stored != 2 || result.Skipped != 1 {
		t.Fatalf("expected stored=2 skipped=1, got stored=%d skipped=%d", result.Stored, result.Skipped)
	}
	if len(store.rows) != 2 {
		t.Fatalf("expected 2 rows in store, got %d", len(store.rows))
	}
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &fakeFetcher{name: source.NameAdzuna, results: []posting.Raw{
		rawPosting("adzuna", "Engineer", "Acme", "Paris", "FR"),
	}}
	svc := NewService(store, []source.Fetcher{fetcher}, zerolog.Nop())

	first, err := svc.Run(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Stored != 1 || second.Stored != 0 {
		t.Fatalf("expected stored=1 then stored=0, got %d then %d", first.Stored, second.Stored)
	}
	if second.Skipped != 1 {
		t.Fatalf("expected second run to skip the existing posting, got skipped=%d", second.Skipped)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected a single row total, got %d", len(store.rows))
	}
}

func TestRunToleratesFetcherFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	broken := &fakeFetcher{name: source.NameAdzuna, err: errors.New("upstream down")}
	healthy := &fakeFetcher{name: source.NameJooble, results: []posting.Raw{
		rawPosting("jooble", "Engineer", "Globex", "Berlin", "DE"),
	}}

	svc := NewService(store, []source.Fetcher{broken, healthy}, zerolog.Nop())
	result, err := svc.Run(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Stored != 1 {
		t.Fatalf("expected healthy source to store 1, got %d", result.Stored)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("expected both sources to be reported as attempted, got %v", result.Sources)
	}
}

func TestRunToleratesInsertFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.failIDs[posting.ComputeIdentity("adzuna", "Engineer", "Acme", "Paris", "FR")] = true

	fetcher := &fakeFetcher{name: source.NameAdzuna, results: []posting.Raw{
		rawPosting("adzuna", "Engineer", "Acme", "Paris", "FR"),
		rawPosting("adzuna", "Designer", "Acme", "Paris", "FR"),
	}}

	svc := NewService(store, []source.Fetcher{fetcher}, zerolog.Nop())
	result, err := svc.Run(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Stored != 1 || result.Skipped != 1 {
		t.Fatalf("expected stored=1 skipped=1, got stored=%d skipped=%d", result.Stored, result.Skipped)
	}
}

func TestRunDefaultsQuery(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, nil, zerolog.Nop())
	result, err := svc.Run(context.Background(), "  ")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Stored != 0 || result.Skipped != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestIngestOne(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, nil, zerolog.Nop())

	id, inserted, err := svc.IngestOne(context.Background(), rawPosting("direct", "Engineer", "Acme", "Paris", "FR"))
	if err != nil {
		t.Fatalf("ingest one: %v", err)
	}
	if !inserted || id == "" {
		t.Fatalf("expected insert with id, got inserted=%t id=%q", inserted, id)
	}

	_, insertedAgain, err := svc.IngestOne(context.Background(), rawPosting("direct", "Engineer", "Acme", "Paris", "FR"))
	if err != nil {
		t.Fatalf("ingest duplicate: %v", err)
	}
	if insertedAgain {
		t.Fatalf("expected duplicate direct upload to be skipped")
	}
}
