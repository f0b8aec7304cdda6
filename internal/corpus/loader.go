// Package corpus loads the posting-embedding corpus: a CSV object of
// (reference_id, comma-separated vector) rows fetched wholesale per matching
// run.
package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/match"
)

const defaultRequestTimeout = 30 * time.Second

// Accepted header names, in priority order. The upstream artifact pipeline
// historically wrote RN/embedding_str.
var (
	referenceColumns = []string{"reference_id", "rn", "job_id"}
	embeddingColumns = []string{"embedding", "embedding_str", "vector"}
)

// HTTPLoader fetches the corpus object from baseURL/key.
type HTTPLoader struct {
	baseURL string
	key     string
	client  *http.Client
	logger  zerolog.Logger
}

func NewHTTPLoader(baseURL, key string, timeout time.Duration, logger zerolog.Logger) *HTTPLoader {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPLoader{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		key:     strings.TrimLeft(strings.TrimSpace(key), "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "corpus").Logger(),
	}
}

func (l *HTTPLoader) Load(ctx context.Context) ([]match.Reference, error) {
	if l.baseURL == "" {
		return nil, fmt.Errorf("corpus base URL is not configured")
	}

	objectURL := l.baseURL + "/" + l.key
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, objectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build corpus request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus object %s: %w", objectURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("corpus object %s returned %d: %s", objectURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	references, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse corpus object %s: %w", objectURL, err)
	}

	l.logger.Debug().Int("references", len(references)).Str("key", l.key).Msg("corpus object parsed")
	return references, nil
}

// ParseCSV reads corpus rows from r. The first record is a header naming a
// reference-id column and an embedding column; the embedding cell holds
// comma-separated floats.
func ParseCSV(r io.Reader) ([]match.Reference, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	refIdx, err := findColumn(header, referenceColumns)
	if err != nil {
		return nil, err
	}
	embIdx, err := findColumn(header, embeddingColumns)
	if err != nil {
		return nil, err
	}

	var references []match.Reference
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(record) <= refIdx || len(record) <= embIdx {
			return nil, fmt.Errorf("row %d has %d fields, expected at least %d", line, len(record), max(refIdx, embIdx)+1)
		}

		vector, err := parseVector(record[embIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		references = append(references, match.Reference{
			ReferenceID: strings.TrimSpace(record[refIdx]),
			Vector:      vector,
		})
	}

	return references, nil
}

func findColumn(header []string, candidates []string) (int, error) {
	for _, candidate := range candidates {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), candidate) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("no column matching %v in header %v", candidates, header)
}

func parseVector(cell string) ([]float64, error) {
	parts := strings.Split(cell, ",")
	vector := make([]float64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parse embedding component %q: %w", part, err)
		}
		vector = append(vector, value)
	}
	return vector, nil
}
