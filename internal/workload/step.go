// Package workload executes config-driven HTTP journeys against the
// target service.
package workload

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"capsearch/internal/config"
	"capsearch/internal/core"
	"capsearch/internal/template"
)

// maxExtractBodySize limits how much of a response body is read for
// variable extraction.
const maxExtractBodySize = 10 * 1024 * 1024

// StepResult is the outcome of executing one step.
type StepResult struct {
	Duration   time.Duration
	Success    bool
	Error      string
	StatusCode int
	Extract    map[string]any
}

// Step executes one configured request with variable substitution.
type Step struct {
	cfg    config.StepConfig
	client *http.Client
}

func NewStep(cfg config.StepConfig, client *http.Client) *Step {
	return &Step{cfg: cfg, client: client}
}

func (s *Step) Name() string {
	return s.cfg.Name
}

// Execute substitutes variables into the request, performs it, and
// extracts any configured response fields. A failed request is a normal
// outcome reported through StepResult, not an error.
func (s *Step) Execute(ctx context.Context, vars core.Variables) StepResult {
	start := time.Now()

	url, err := template.Substitute(s.cfg.URL, vars)
	if err != nil {
		return failedResult(start, err)
	}
	body, err := template.Substitute(s.cfg.Body, vars)
	if err != nil {
		return failedResult(start, err)
	}
	headers, err := template.SubstituteMap(s.cfg.Headers, vars)
	if err != nil {
		return failedResult(start, err)
	}

	method := s.cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return failedResult(start, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return failedResult(start, err)
	}
	defer resp.Body.Close()

	result := StepResult{
		StatusCode: resp.StatusCode,
		Success:    resp.StatusCode < 400,
	}

	if result.Success && len(s.cfg.Extract) > 0 {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxExtractBodySize))
		if err != nil {
			return failedResult(start, err)
		}
		extracted, err := template.Extract(respBody, s.cfg.Extract)
		if err != nil {
			return failedResult(start, err)
		}
		result.Extract = extracted
	} else {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	result.Duration = time.Since(start)
	if !result.Success {
		result.Error = resp.Status
	}
	return result
}

func failedResult(start time.Time, err error) StepResult {
	return StepResult{
		Duration: time.Since(start),
		Success:  false,
		Error:    err.Error(),
	}
}
