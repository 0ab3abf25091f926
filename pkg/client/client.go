package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/params"
	"github.com/chartsync/chartsync/pkg/report"
	"github.com/chartsync/chartsync/pkg/types"
)

const (
	// requestTimeout bounds read-only calls
	requestTimeout = 10 * time.Second
	// reconcileTimeout bounds a reconcile call, which blocks on the
	// server until the underlying helm command finishes
	reconcileTimeout = 5 * time.Minute
)

// Client wraps the chartsync HTTP API for CLI and programmatic usage
type Client struct {
	base string
	hc   *http.Client
}

// ReconcileResult is the server's report for one converged release
type ReconcileResult struct {
	report.Result
	Action types.Action `json:"action"`
}

// VersionInfo describes the helm binary behind the server
type VersionInfo struct {
	Version string `json:"version"`
	Dialect string `json:"dialect"`
}

// APIError is a non-2xx response decoded from the server
type APIError struct {
	StatusCode int
	Msg        string
	// Failure carries the full failure report when the server produced
	// one, e.g. for a failed or rejected reconcile
	Failure *report.Failure
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Msg)
}

// New creates a client for the chartsync API at baseURL, e.g.
// "http://127.0.0.1:8080"
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{})
}

// NewWithHTTPClient creates a client that issues its requests through
// hc, for callers that need a custom transport
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

// Reconcile submits one release's parameters and blocks until the
// server has converged it
func (c *Client) Reconcile(p *params.Params) (*ReconcileResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	var result ReconcileResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/reconcile", p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListReleases returns every release the server's helm binary reports
func (c *Client) ListReleases() ([]types.ObservedRelease, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var releases []types.ObservedRelease
	if err := c.do(ctx, http.MethodGet, "/api/v1/releases", nil, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// GetRelease returns one release with its applied values. A release
// the server does not know returns (nil, nil): absence is an
// observation, not an error
func (c *Client) GetRelease(name string) (*types.ObservedRelease, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var observed types.ObservedRelease
	err := c.do(ctx, http.MethodGet, "/api/v1/releases/"+url.PathEscape(name), nil, &observed)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &observed, nil
}

// ReleaseHistory returns the journaled runs for one release, newest
// first. A limit of 0 uses the server default
func (c *Client) ReleaseHistory(name string, limit int) ([]*journal.Record, error) {
	return c.fetchHistory("/api/v1/releases/"+url.PathEscape(name)+"/history", limit)
}

// History returns the most recent journaled runs across all releases
func (c *Client) History(limit int) ([]*journal.Record, error) {
	return c.fetchHistory("/api/v1/history", limit)
}

func (c *Client) fetchHistory(path string, limit int) ([]*journal.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var records []*journal.Record
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Version reports the helm client version the server probed and the
// dialect it selected
func (c *Client) Version() (*VersionInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var info VersionInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/version", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Healthy returns nil when the server reports itself healthy
func (c *Client) Healthy() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError. The server
// speaks two failure shapes: {"error": ...} for request problems and a
// full failure report for reconciliation failures.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Msg = err.Error()
		return apiErr
	}

	var probe struct {
		Error string `json:"error"`
		report.Failure
	}
	if err := json.Unmarshal(body, &probe); err == nil {
		switch {
		case probe.Error != "":
			apiErr.Msg = probe.Error
		case probe.Msg != "":
			apiErr.Msg = probe.Msg
			failure := probe.Failure
			apiErr.Failure = &failure
		}
	}
	if apiErr.Msg == "" {
		apiErr.Msg = strings.TrimSpace(string(body))
	}
	return apiErr
}
