package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/remotestaffing/matchpoint/internal/candidate"
	"github.com/remotestaffing/matchpoint/internal/ingest"
	"github.com/remotestaffing/matchpoint/internal/match"
	"github.com/remotestaffing/matchpoint/internal/posting"
)

type stubIngest struct {
	result ingest.Result
}

func (s *stubIngest) Run(context.Context, string) (ingest.Result, error) {
	return s.result, nil
}

func (s *stubIngest) IngestOne(_ context.Context, raw posting.Raw) (string, bool, error) {
	id := posting.FromRaw(raw, time.Now().UTC()).PostingID
	return id, true, nil
}

type stubMatch struct {
	result match.Result
	err    error
}

func (s *stubMatch) Run(context.Context, string) (match.Result, error) {
	return s.result, s.err
}

type stubCandidates struct {
	created candidate.Created
	err     error
}

func (s *stubCandidates) Create(_ context.Context, input candidate.Input) (candidate.Created, error) {
	if s.err != nil {
		return candidate.Created{}, s.err
	}
	created := s.created
	created.RequestedRole = candidate.NormalizeRequestedRole(input.RequestedRole)
	return created, nil
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(context.Context) error { return s.err }

func newTestServer(ingestStub *stubIngest, matchStub *stubMatch, candidatesStub *stubCandidates) *Server {
	return NewServer(ingestStub, matchStub, candidatesStub, &stubPinger{}, zerolog.Nop(), Options{Host: "127.0.0.1", Port: 0})
}

func doRequest(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := server.buildEcho()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSend(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return parsed
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubIngest{}, &stubMatch{}, &stubCandidates{})
	rec := doRequest(t, server, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleCandidateUpload(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubIngest{}, &stubMatch{}, &stubCandidates{
		created: candidate.Created{CandidateID: "c-1", Role: candidate.RoleBaseline},
	})

	rec := doRequest(t, server, http.MethodPost, "/api/candidates",
		`{"name":"Ada","email":"ada@example.com","resume_text":"body","requested_role":"admin"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	parsed := decodeJSend(t, rec)
	data := parsed["data"].(map[string]any)
	if data["candidate_id"] != "c-1" {
		t.Fatalf("unexpected candidate_id: %v", data["candidate_id"])
	}
	if data["role"] != candidate.RoleBaseline {
		t.Fatalf("expected baseline role in response, got %v", data["role"])
	}
}

func TestHandleCandidateUploadRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubIngest{}, &stubMatch{}, &stubCandidates{})
	rec := doRequest(t, server, http.MethodPost, "/api/candidates", `{"name":"Ada"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlePostingUpload(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubIngest{}, &stubMatch{}, &stubCandidates{})
	rec := doRequest(t, server, http.MethodPost, "/api/postings",
		`{"title":"Engineer","description":"Build things"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, server, http.MethodPost, "/api/postings", `{"title":"Engineer"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing description, got %d", rec.Code)
	}
}

func TestHandleIngestRun(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubIngest{result: ingest.Result{Stored: 3, Skipped: 1, Sources: []string{"adzuna"}}},
		&stubMatch{}, &stubCandidates{})

	rec := doRequest(t, server, http.MethodPost, "/api/ingest/runs", `{"query":"golang"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	parsed := decodeJSend(t, rec)
	data := parsed["data"].(map[string]any)
	if data["jobs_stored"].(float64) != 3 || data["jobs_skipped"].(float64) != 1 {
		t.Fatalf("unexpected counts: %v", data)
	}
}

func TestHandleMatchRunErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("x: %w", match.ErrCandidateNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", match.ErrResumeMissing), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", match.ErrCorpusUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("x: %w", match.ErrEmptyCorpus), http.StatusServiceUnavailable},
		{fmt.Errorf("x: %w", match.ErrDimensionMismatch), http.StatusConflict},
	}

	for _, tc := range cases {
		server := newTestServer(&stubIngest{}, &stubMatch{err: tc.err}, &stubCandidates{})
		rec := doRequest(t, server, http.MethodPost, "/api/match/runs", `{"candidate_id":"c-1"}`)
		if rec.Code != tc.code {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

func TestHandleMatchRunRequiresCandidateID(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubIngest{}, &stubMatch{}, &stubCandidates{})
	rec := doRequest(t, server, http.MethodPost, "/api/match/runs", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleMatchRunSuccess(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubIngest{}, &stubMatch{result: match.Result{
		CandidateID:    "c-1",
		MatchesWritten: 2,
		TopMatches: []match.Score{
			{ReferenceID: "job-1", MatchPercent: 100},
			{ReferenceID: "job-2", MatchPercent: 87.5},
		},
	}}, &stubCandidates{})

	rec := doRequest(t, server, http.MethodPost, "/api/match/runs", `{"candidate_id":"c-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	parsed := decodeJSend(t, rec)
	data := parsed["data"].(map[string]any)
	if data["matches_written"].(float64) != 2 {
		t.Fatalf("unexpected matches_written: %v", data)
	}
}
