package match

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEmbeddingEndpoint       = "http://127.0.0.1:8844/embed"
	DefaultEmbeddingRequestTimeout = 45 * time.Second
)

// Embedder turns resume text into a query vector. Whatever the
// implementation, the engine still enforces dimension equality with the
// corpus.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// HTTPEmbedder calls an embedding inference endpoint. It accepts both the
// `{"texts": [...]}` and the OpenAI-style `{"input": [...]}` request shapes,
// keyed off the endpoint path.
type HTTPEmbedder struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

func NewHTTPEmbedder(endpoint string, timeout time.Duration) *HTTPEmbedder {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEmbeddingEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultEmbeddingRequestTimeout
	}
	return &HTTPEmbedder{
		endpoint: normalizeEmbeddingEndpoint(endpoint),
		timeout:  timeout,
		client:   http.DefaultClient,
	}
}

type embedRequest struct {
	Texts []string `json:"texts,omitempty"`
	Input []string `json:"input,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Data       []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	payload := embedRequest{Texts: []string{text}}
	parsedEndpoint, err := url.Parse(e.endpoint)
	if err == nil && strings.HasSuffix(parsedEndpoint.Path, "/v1/embeddings") {
		payload = embedRequest{Input: []string{text}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding service status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	vectors := parsed.Embeddings
	if len(vectors) == 0 && len(parsed.Data) > 0 {
		vectors = make([][]float64, 0, len(parsed.Data))
		for _, row := range parsed.Data {
			vectors = append(vectors, row.Embedding)
		}
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding response missing vectors")
	}

	return vectors[0], nil
}

func normalizeEmbeddingEndpoint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return strings.TrimRight(trimmed, "/") + "/embed"
	}
	return trimmed
}
