// Package backend is the HTTP transport to the remote student/course API.
package backend

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

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
	"github.com/noah-isme/student-admin-console/pkg/middleware/requestid"
)

const maxErrorBody = 4 << 10

// Observer receives timing for every backend round trip. Status is 0 when the
// request never produced a response.
type Observer interface {
	ObserveBackendCall(resource, operation string, status int, duration time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client issues JSON requests against the backend base URL.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// Call describes one backend request.
type Call struct {
	Resource  string
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      interface{}
	Header    http.Header
}

// Result carries response metadata alongside the decoded body.
type Result struct {
	Status   int
	ETag     string
	Duration time.Duration
}

// New constructs a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: base, http: httpClient, observer: cfg.Observer, logger: logger}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes call and decodes a JSON response body into out when out is non-nil.
func (c *Client) Do(ctx context.Context, call Call, out interface{}) (*Result, error) {
	req, err := c.newRequest(ctx, call)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build backend request")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(call, 0, duration)
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status,
			fmt.Sprintf("%s %s: backend unreachable", call.Resource, call.Operation))
	}
	defer resp.Body.Close()
	c.observe(call, resp.StatusCode, duration)

	result := &Result{Status: resp.StatusCode, ETag: resp.Header.Get("ETag"), Duration: duration}

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return result, appErrors.FromStatus(resp.StatusCode, errorMessage(call, resp.StatusCode, body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return result, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "failed to read backend response")
	}
	// out cannot be filled from an empty body.
	if len(bytes.TrimSpace(raw)) == 0 {
		return result, appErrors.Clone(appErrors.ErrUpstream,
			fmt.Sprintf("%s %s: empty backend response", call.Resource, call.Operation))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "invalid backend response")
	}
	return result, nil
}

func (c *Client) newRequest(ctx context.Context, call Call) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(call.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := call.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.baseURL + path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", call.Resource, call.Operation, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.HeaderKey, reqID)
	}
	for key, values := range call.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

func (c *Client) observe(call Call, status int, duration time.Duration) {
	c.logger.Debug("backend call",
		zap.String("resource", call.Resource),
		zap.String("operation", call.Operation),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	)
	if c.observer != nil {
		c.observer.ObserveBackendCall(call.Resource, call.Operation, status, duration)
	}
}

// errorMessage prefers the backend's own "message"/"error" field and falls
// back to a generic description.
func errorMessage(call Call, status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("%s %s failed with status %d", call.Resource, call.Operation, status)
}
