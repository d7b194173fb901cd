// Package backend is the outbound client for the finance REST API. It
// translates UI intents into HTTP calls and normalizes every response
// through a single funnel: 401 becomes ErrUnauthenticated (the caller
// escalates it into a session-expired redirect), any other non-2xx becomes
// a RequestError carrying the server's `detail` message, and transport or
// decode failures surface as a generic request-failed error.
package backend

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

	"github.com/sillysavant/f1nance/pkg/errors"
	"github.com/sillysavant/f1nance/pkg/httpclient"
	"github.com/sillysavant/f1nance/pkg/logger"
	"github.com/sillysavant/f1nance/pkg/metrics"
	"go.uber.org/zap"
)

// DefaultTokenType is assumed when the stored bearer scheme label is empty.
const DefaultTokenType = "bearer"

// Client talks to the finance REST API. It is stateless with respect to
// credentials: tokens come in as arguments and persistence is the caller's
// job (the Token Store).
type Client struct {
	baseURL string
	http    httpclient.Client
}

// New creates a backend client for the given API base URL
// (e.g. http://localhost:8000/api/v1).
func New(baseURL string, http httpclient.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http,
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// AuthHeader builds the Authorization header value from a token pair,
// exactly matching what was persisted: "<token_type> <token>".
func AuthHeader(tokenType, token string) string {
	if tokenType == "" {
		tokenType = DefaultTokenType
	}
	return tokenType + " " + token
}

// request describes one upstream call for the shared funnel.
type request struct {
	operation string // metrics/log label
	method    string
	path      string
	query     url.Values
	jsonBody  any
	formBody  url.Values
	auth      string // Authorization header value, empty for anonymous calls
	failKind  error  // error kind for non-2xx responses (default ErrRequestFailed)
}

// doJSON executes the request and decodes a 2xx JSON body into out (out may
// be nil for fire-and-forget calls).
func (c *Client) doJSON(ctx context.Context, req request, out any) error {
	start := time.Now()
	err := c.execute(ctx, req, out)

	status := "success"
	if err != nil {
		status = "error"
	}
	duration := metrics.MeasureDuration(start)
	metrics.BackendRequestDuration.WithLabelValues(req.operation, status).Observe(duration)
	metrics.BackendRequestTotal.WithLabelValues(req.operation, status).Inc()
	logger.LogAPICall("finance-api", req.operation, status, duration)

	return err
}

func (c *Client) execute(ctx context.Context, req request, out any) error {
	var body io.Reader
	contentType := ""

	switch {
	case req.formBody != nil:
		body = strings.NewReader(req.formBody.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.jsonBody != nil:
		data, err := json.Marshal(req.jsonBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	target := c.url(req.path)
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.auth != "" {
		httpReq.Header.Set("Authorization", req.auth)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warn("Finance API unreachable",
			zap.String("operation", req.operation),
			zap.Error(err))
		return errors.NewRequestError(errors.ErrRequestFailed, 0, "Request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	return c.handleResponse(req, resp, out)
}

// handleResponse is the single normalization funnel every call goes through.
func (c *Client) handleResponse(req request, resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusUnauthorized && req.auth != "" {
		// A 401 on an authenticated call is session-wide: the handler layer
		// escalates it into a clear-tokens-and-redirect, never a page error.
		// Anonymous calls (login itself) keep their detail message instead.
		return errors.NewRequestError(errors.ErrUnauthenticated, resp.StatusCode,
			"Session expired. Please log in again.")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := req.failKind
		if kind == nil {
			kind = errors.ErrRequestFailed
		}
		return errors.NewRequestError(kind, resp.StatusCode, parseDetail(resp.Body, resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("Finance API returned malformed JSON",
			zap.String("operation", req.operation),
			zap.Error(err))
		return errors.NewRequestError(errors.ErrRequestFailed, resp.StatusCode, "Request failed")
	}
	return nil
}

// parseDetail extracts the server's `detail` message, falling back to a
// generic status-tagged message when the body is not what we expect.
func parseDetail(body io.Reader, statusCode int) string {
	fallback := fmt.Sprintf("Request failed (%d)", statusCode)

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Detail == "" {
		return fallback
	}
	return payload.Detail
}
