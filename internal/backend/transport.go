// Package backend talks to the dashboard backend over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 16 << 20

// HTTPTransport implements contract.Transport over net/http.
type HTTPTransport struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

var _ contract.Transport = &HTTPTransport{} // Compile-time check

// NewHTTPTransport creates a transport rooted at baseURL. The timeout applies to
// requests that do not carry their own.
func NewHTTPTransport(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = contract.DefaultTimeout
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

// Do issues the request and returns the raw response body of a 2xx reply.
func (t *HTTPTransport) Do(ctx context.Context, r contract.Request) ([]byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = t.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := t.baseURL + r.Path
	if len(r.Params) > 0 {
		endpoint += "?" + r.Params.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, r.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("new %s %s request: %w", method, r.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("backend request failed",
			zap.String("method", method), zap.String("path", r.Path), zap.Error(err))
		return nil, &contract.TransportError{Method: method, Path: r.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &contract.TransportError{Method: method, Path: r.Path, Err: err}
	}

	t.logger.Debug("backend response",
		zap.String("method", method),
		zap.String("path", r.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, contract.NewStatusError(resp.StatusCode, errorDetail(data))
	}
	return data, nil
}

// errorDetail extracts the "detail" (or "message") string of an error body.
// Structured details such as validation lists are ignored.
func errorDetail(data []byte) string {
	var body struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if s, ok := body.Detail.(string); ok && s != "" {
		return s
	}
	return body.Message
}
