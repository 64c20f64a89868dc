// Package solver speaks to the external constraint solver over HTTP.
// The solver is a black box: this client only submits timetables and
// polls job state; all optimization happens on the other side.
package solver

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

	"go.uber.org/zap"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
)

// Status values reported by the solver service.
const (
	StatusSolving    = "SOLVING"
	StatusNotSolving = "NOT_SOLVING"
)

// StatusResponse is the solver's job status payload.
type StatusResponse struct {
	SolverStatus string `json:"solverStatus"`
}

type submitResponse struct {
	JobID string `json:"jobId"`
}

// Client submits timetables to the external solver and polls results.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New builds a solver client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Submit posts the canonical timetable and returns the solver job id.
// The solver answers either with a JSON object carrying jobId or with
// the raw id as plain text; a body starting with '{' selects the JSON
// decode, anything else is taken verbatim.
func (c *Client) Submit(ctx context.Context, timetable models.Timetable) (string, error) {
	payload, err := json.Marshal(timetable)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable")
	}

	body, err := c.do(ctx, http.MethodPost, "/timetables", payload)
	if err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		var resp submitResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrSolverFailed.Code, appErrors.ErrSolverFailed.Status, "solver returned malformed submit response")
		}
		if resp.JobID == "" {
			return "", appErrors.Clone(appErrors.ErrSolverFailed, "solver submit response carried no jobId")
		}
		return resp.JobID, nil
	}
	if trimmed == "" {
		return "", appErrors.Clone(appErrors.ErrSolverFailed, "solver submit response was empty")
	}
	return trimmed, nil
}

// Status fetches the current solver status for a job.
func (c *Client) Status(ctx context.Context, jobID string) (*StatusResponse, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/timetables/%s/status", url.PathEscape(jobID)), nil)
	if err != nil {
		return nil, err
	}
	var status StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolverFailed.Code, appErrors.ErrSolverFailed.Status, "solver returned malformed status response")
	}
	return &status, nil
}

// Solution fetches the solved timetable for a terminal job.
func (c *Client) Solution(ctx context.Context, jobID string) (*models.Solution, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/timetables/%s", url.PathEscape(jobID)), nil)
	if err != nil {
		return nil, err
	}
	var solution models.Solution
	if err := json.Unmarshal(body, &solution); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolverFailed.Code, appErrors.ErrSolverFailed.Status, "solver returned malformed solution response")
	}
	return &solution, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build solver request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("solver unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrSolverUnavailable.Code, appErrors.ErrSolverUnavailable.Status, "solver service unavailable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolverFailed.Code, appErrors.ErrSolverFailed.Status, "failed to read solver response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrSolverFailed,
			fmt.Sprintf("solver %s %s failed: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return body, nil
}
