// Package api is the single point of egress to the assistant backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/comigor/memoria/internal/config"
	"github.com/comigor/memoria/internal/credential"
	"github.com/comigor/memoria/internal/logger"
)

// maxErrorBody bounds how much of an error response is read for detail extraction.
const maxErrorBody = 1 << 20

// Client issues requests against a base URL configured once at construction.
// It holds only configuration and is safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	interceptors []Interceptor
	metrics      *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithInterceptor appends an interceptor after the built-in ones.
func WithInterceptor(i Interceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, i) }
}

// WithMetrics records request outcomes.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for cfg.BaseURL that authenticates with tokens
// read from creds on every request.
func NewClient(cfg config.APIConfig, creds credential.Source, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		interceptors: []Interceptor{BearerToken(creds), RequestID()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends body (JSON-encoded when non-nil) and decodes a 2xx response into
// out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, reader, contentType, out)
}

// Upload posts r as a multipart form file under field with the given filename.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	if r == nil {
		return fmt.Errorf("upload %s: no file content", filename)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("multipart: %w", err)
	}
	return c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, intercept := range c.interceptors {
		if err := intercept(req); err != nil {
			return err
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(method, path, "network_error", time.Since(start).Seconds())
		logger.L.Warn("backend unreachable", "method", method, "path", path, "error", err)
		return &NetworkError{Method: method, Path: path, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(method, path, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr := &HTTPError{Status: resp.StatusCode, Detail: extractDetail(raw)}
		logger.L.Debug("backend returned error", "method", method, "path", path, "status", resp.StatusCode, "detail", httpErr.Detail, "read_error", readErr)
		return httpErr
	}
	c.metrics.observe(method, path, "ok", time.Since(start).Seconds())

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
