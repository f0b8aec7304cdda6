package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/posting"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 20
	adzunaTimeout  = 10 * time.Second
)

// AdzunaFetcher queries the Adzuna search API once per configured country
// and merges the results. A failing country is logged and skipped so the
// remaining countries still contribute.
type AdzunaFetcher struct {
	appID     string
	appKey    string
	countries []string
	client    *http.Client
	logger    zerolog.Logger
}

func NewAdzunaFetcher(appID, appKey string, countries []string, logger zerolog.Logger) *AdzunaFetcher {
	return &AdzunaFetcher{
		appID:     appID,
		appKey:    appKey,
		countries: countries,
		client:    &http.Client{Timeout: adzunaTimeout},
		logger:    logger.With().Str("fetcher", NameAdzuna).Logger(),
	}
}

func (f *AdzunaFetcher) Name() string { return NameAdzuna }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	Title       *string        `json:"title"`
	Description string         `json:"description"`
	RedirectURL *string        `json:"redirect_url"`
	SalaryMin   *float64       `json:"salary_min"`
	SalaryMax   *float64       `json:"salary_max"`
	Latitude    *float64       `json:"latitude"`
	Longitude   *float64       `json:"longitude"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
}

type adzunaCompany struct {
	DisplayName *string `json:"display_name"`
}

type adzunaLocation struct {
	Area []string `json:"area"`
}

func (f *AdzunaFetcher) Fetch(ctx context.Context, query string) ([]posting.Raw, error) {
	if strings.TrimSpace(f.appID) == "" || strings.TrimSpace(f.appKey) == "" {
		return nil, fmt.Errorf("adzuna credentials are not configured")
	}
	if len(f.countries) == 0 {
		return nil, fmt.Errorf("no adzuna countries configured")
	}

	var (
		postings []posting.Raw
		failed   int
	)
	for _, country := range f.countries {
		results, err := f.fetchCountry(ctx, country, query)
		if err != nil {
			failed++
			f.logger.Warn().Err(err).Str("country", country).Msg("adzuna country fetch failed")
			continue
		}
		postings = append(postings, results...)
	}

	if failed == len(f.countries) {
		return nil, fmt.Errorf("all %d adzuna countries failed", failed)
	}
	return postings, nil
}

func (f *AdzunaFetcher) fetchCountry(ctx context.Context, country, query string) ([]posting.Raw, error) {
	endpoint := fmt.Sprintf("%s/%s/search/1", adzunaBaseURL, country)

	params := url.Values{}
	params.Set("app_id", f.appID)
	params.Set("app_key", f.appKey)
	params.Set("what", query)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return mapAdzunaResults(apiResp.Results, country), nil
}

func mapAdzunaResults(results []adzunaResult, country string) []posting.Raw {
	countryUpper := strings.ToUpper(country)
	postings := make([]posting.Raw, 0, len(results))
	for _, r := range results {
		var city *string
		if len(r.Location.Area) > 0 {
			last := r.Location.Area[len(r.Location.Area)-1]
			city = &last
		}

		postings = append(postings, posting.Raw{
			Source:      NameAdzuna,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			City:        city,
			Country:     &countryUpper,
			Description: &r.Description,
			RedirectURL: r.RedirectURL,
			SalaryMin:   r.SalaryMin,
			SalaryMax:   r.SalaryMax,
			Lat:         r.Latitude,
			Lng:         r.Longitude,
		})
	}
	return postings
}
