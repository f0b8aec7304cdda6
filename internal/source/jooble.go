package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/posting"
)

const (
	joobleBaseURL = "https://jooble.org/api/"
	joobleTimeout = 10 * time.Second
)

// JoobleFetcher queries the Jooble search API. Jooble reports salary as a
// free-form string, so salary bounds stay unset; the listing link is the
// generic url, lowest in apply-url priority.
type JoobleFetcher struct {
	apiKey string
	client *http.Client
	logger zerolog.Logger
}

func NewJoobleFetcher(apiKey string, logger zerolog.Logger) *JoobleFetcher {
	return &JoobleFetcher{
		apiKey: apiKey,
		client: &http.Client{Timeout: joobleTimeout},
		logger: logger.With().Str("fetcher", NameJooble).Logger(),
	}
}

func (f *JoobleFetcher) Name() string { return NameJooble }

type joobleRequest struct {
	Keywords string `json:"keywords"`
}

type joobleResponse struct {
	Jobs []joobleJob `json:"jobs"`
}

type joobleJob struct {
	Title    *string `json:"title"`
	Company  *string `json:"company"`
	Location *string `json:"location"`
	Snippet  *string `json:"snippet"`
	Link     *string `json:"link"`
}

func (f *JoobleFetcher) Fetch(ctx context.Context, query string) ([]posting.Raw, error) {
	if strings.TrimSpace(f.apiKey) == "" {
		return nil, fmt.Errorf("jooble api key is not configured")
	}

	payload, err := json.Marshal(joobleRequest{Keywords: query})
	if err != nil {
		return nil, fmt.Errorf("marshal jooble request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joobleBaseURL+f.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jooble returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp joobleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return mapJoobleJobs(apiResp.Jobs), nil
}

func mapJoobleJobs(jobs []joobleJob) []posting.Raw {
	postings := make([]posting.Raw, 0, len(jobs))
	for _, j := range jobs {
		postings = append(postings, posting.Raw{
			Source:      NameJooble,
			Title:       j.Title,
			Company:     j.Company,
			City:        j.Location,
			Description: j.Snippet,
			URL:         j.Link,
		})
	}
	return postings
}
