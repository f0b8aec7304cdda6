package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/remotestaffing/matchpoint/internal/match"
	"github.com/remotestaffing/matchpoint/internal/posting"
	"github.com/remotestaffing/matchpoint/internal/schema"
	"github.com/remotestaffing/matchpoint/internal/source"
)

func (s *Server) handleCandidateUpload(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "failed to read request body", nil)
	}

	input, err := schema.ValidateCandidateUpload(body)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	created, err := s.candidates.Create(c.Request().Context(), *input)
	if err != nil {
		s.logger.Error().Err(err).Msg("candidate creation failed")
		return internalError(c, "failed to create candidate")
	}

	return successWithStatus(c, http.StatusCreated, created)
}

type postingUploadRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Company     *string  `json:"company"`
	City        *string  `json:"city"`
	Country     *string  `json:"country"`
	ApplyURL    *string  `json:"apply_url"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
}

type postingUploadResponse struct {
	PostingID string `json:"posting_id"`
	Stored    bool   `json:"stored"`
}

func (s *Server) handlePostingUpload(c echo.Context) error {
	var req postingUploadRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid JSON body", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return fail(c, http.StatusBadRequest, "title and description are required", nil)
	}

	postingID, stored, err := s.ingest.IngestOne(c.Request().Context(), posting.Raw{
		Source:      source.NameDirect,
		Title:       &req.Title,
		Company:     req.Company,
		City:        req.City,
		Country:     req.Country,
		Description: &req.Description,
		ApplyURL:    req.ApplyURL,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("posting upload failed")
		return internalError(c, "failed to store posting")
	}

	status := http.StatusCreated
	if !stored {
		// Same identity already persisted; idempotent no-op.
		status = http.StatusOK
	}
	return successWithStatus(c, status, postingUploadResponse{PostingID: postingID, Stored: stored})
}

type ingestRunRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleIngestRun(c echo.Context) error {
	var req ingestRunRequest
	if c.Request().ContentLength != 0 {
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid JSON body", nil)
		}
	}

	result, err := s.ingest.Run(c.Request().Context(), req.Query)
	if err != nil {
		s.logger.Error().Err(err).Msg("ingestion run failed")
		return internalError(c, "ingestion run failed")
	}
	return success(c, result)
}

type matchRunRequest struct {
	CandidateID string `json:"candidate_id"`
}

func (s *Server) handleMatchRun(c echo.Context) error {
	var req matchRunRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid JSON body", nil)
	}
	if strings.TrimSpace(req.CandidateID) == "" {
		return fail(c, http.StatusBadRequest, "candidate_id is required", nil)
	}

	result, err := s.match.Run(c.Request().Context(), req.CandidateID)
	if err != nil {
		return s.matchRunError(c, err)
	}
	return success(c, result)
}

func (s *Server) matchRunError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, match.ErrCandidateNotFound):
		return failNotFound(c, "candidate not found")
	case errors.Is(err, match.ErrResumeMissing):
		return fail(c, http.StatusUnprocessableEntity, "candidate has no resume text", nil)
	case errors.Is(err, match.ErrCorpusUnavailable), errors.Is(err, match.ErrEmptyCorpus):
		return fail(c, http.StatusServiceUnavailable, "embedding corpus is unavailable", nil)
	case errors.Is(err, match.ErrDimensionMismatch):
		return fail(c, http.StatusConflict, "resume embedding does not match corpus dimensions", nil)
	default:
		s.logger.Error().Err(err).Msg("matching run failed")
		return internalError(c, "matching run failed")
	}
}
