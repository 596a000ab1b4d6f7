// Package api is the HTTP client for the document question-answering backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-call identifier sent to the backend.
const RequestIDHeader = "X-Request-ID"

const maxResponseBytes = 4 << 20

// Client talks to the backend under a single base URL. It never retries:
// upload replaces the knowledge base and reset is destructive, so a repeat is
// always left to the user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListDocuments returns the file names of the current knowledge base. An
// absent list is reported as empty.
func (c *Client) ListDocuments(ctx context.Context) ([]string, error) {
	var resp documentsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/documents", nil, "", &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
	}
	if resp.Documents == nil {
		return []string{}, nil
	}
	return resp.Documents, nil
}

// Upload sends one document as the multipart field "file". The backend
// replaces its knowledge base with it.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%w: create form file: %w", ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUploadFailed, filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: close form: %w", ErrUploadFailed, err)
	}

	var res UploadResult
	if err := c.doJSON(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType(), &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if res.Filename == "" {
		res.Filename = filename
	}
	return &res, nil
}

// UploadFile opens path and uploads it under its base name
func (c *Client) UploadFile(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer f.Close()

	return c.Upload(ctx, filepath.Base(path), f)
}

// Ask sends a question and returns the grounded answer
func (c *Client) Ask(ctx context.Context, query string) (*Answer, error) {
	body, err := json.Marshal(askRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrAskFailed, err)
	}

	var ans Answer
	if err := c.doJSON(ctx, http.MethodPost, "/ask", bytes.NewReader(body), "application/json", &ans); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAskFailed, err)
	}
	return &ans, nil
}

// Reset clears the backend knowledge base. The response body is optional;
// an unparseable one still counts as success.
func (c *Client) Reset(ctx context.Context) (*ResetResult, error) {
	data, err := c.do(ctx, http.MethodDelete, "/reset", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResetFailed, err)
	}

	var res ResetResult
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &res); err != nil {
			c.logger.Debug("reset: ignoring non-JSON body", zap.Error(err))
		}
	}
	return &res, nil
}

// Health fetches the component status snapshot
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, "", &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHealthFailed, err)
	}
	return &h, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	data, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("read response failed", zap.Error(err))
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Detail: parseDetail(resp.StatusCode, data),
		}
		log.Warn("backend error", zap.Int("status", resp.StatusCode), zap.String("detail", se.Detail))
		return nil, se
	}

	log.Debug("request done", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	return data, nil
}
