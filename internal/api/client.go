// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the RAG backend.
//
// The client issues exactly one attempt per call: no retries, no caching and,
// unless configured, no timeout. Failures are returned as *NetworkError,
// *HTTPError or *DecodeError so callers can surface backend detail messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Endpoint paths on the backend.
const (
	PathQuery      = "/query"
	PathIngestText = "/ingest"
	PathIngestFile = "/ingest/file"
	PathHealth     = "/"

	// FileField is the multipart field name carrying uploaded files.
	FileField = "file"

	requestIDHeader = "X-Request-ID"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend origin (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds each request. Zero (the default) means no timeout.
	Timeout time.Duration

	// Token is sent as a bearer token when non-empty.
	Token string

	// UserAgent is sent on every request.
	UserAgent string

	// Logger receives request logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://localhost:8000",
		Timeout:   0,
		UserAgent: "aura-tui",
		Logger:    zap.NewNop(),
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the RAG backend over its three HTTP endpoints.
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client. Zero fields in cfg are filled from
// DefaultConfig, except BaseURL which must be supplied explicitly when cfg
// is non-nil and Timeout where zero is meaningful.
func NewClientWithConfig(cfg *ClientConfig, opts ...HTTPOption) *Client {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	c := *cfg
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	if c.Logger == nil {
		c.Logger = defaults.Logger
	}

	httpOpts := []HTTPOption{
		WithRequestTimeout(c.Timeout),
		WithAuthToken(c.Token),
		WithRequestLogging(),
	}
	httpOpts = append(httpOpts, opts...)

	return &Client{
		config:     &c,
		httpClient: newHTTPClient(httpOpts...),
		logger:     c.Logger,
	}
}

// BaseURL returns the backend origin the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Query asks the backend a question. text must be non-empty after trimming.
func (c *Client) Query(ctx context.Context, text string) (*QueryResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	var resp QueryResponse
	if err := c.doJSON(ctx, "query", http.MethodPost, PathQuery, QueryRequest{Query: text}, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IngestText submits a text snippet. The title is passed through unchanged.
func (c *Client) IngestText(ctx context.Context, text, title string) (*IngestResponse, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	var resp IngestResponse
	req := IngestTextRequest{Text: text, Title: title}
	if err := c.doJSON(ctx, "ingest_text", http.MethodPost, PathIngestText, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IngestFile uploads content as a multipart form under field "file" with the
// given file name. The extension is not checked.
func (c *Client) IngestFile(ctx context.Context, name string, content io.Reader) (*IngestResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(FileField, filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var resp IngestResponse
	if err := c.do(ctx, "ingest_file", http.MethodPost, PathIngestFile, body, writer.FormDataContentType(), &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IngestFilePath opens path and uploads it with IngestFile.
func (c *Client) IngestFilePath(ctx context.Context, path string) (*IngestResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return c.IngestFile(ctx, filepath.Base(path), f)
}

// Ping calls the backend health endpoint. Any 2xx means the backend is
// reachable. A JSON body is decoded for its status; any other body (the
// bundled web frontend served from "/") counts as healthy with no message.
func (c *Client) Ping(ctx context.Context) (*HealthResponse, error) {
	raw, err := c.send(ctx, "health", http.MethodGet, PathHealth, nil, "")
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if ct := raw.header.Get("Content-Type"); !isJSON(ct) {
		ctxzap.Debug(raw.ctx, "health endpoint returned non-JSON body", zap.String("content_type", ct))
	} else if err := decodeBody(raw, &resp, true); err != nil {
		return nil, err
	}
	if resp.Status == "" {
		resp.Status = StatusOK
	}
	return &resp, nil
}

// isJSON reports whether a Content-Type header names a JSON media type.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) doJSON(ctx context.Context, op, method, path string, reqBody, respBody any, strict bool) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	ctx = context.WithValue(ctx, payloadContextKey{}, data)
	return c.do(ctx, op, method, path, bytes.NewReader(data), "application/json", respBody, strict)
}

// rawResponse is a 2xx response body with the request-scoped context.
type rawResponse struct {
	ctx    context.Context
	header http.Header
	data   []byte
}

// do performs a single request and decodes the body into respBody. When
// strict is false, a 2xx body that does not decode is logged and ignored.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, respBody any, strict bool) error {
	raw, err := c.send(ctx, op, method, path, body, contentType)
	if err != nil {
		return err
	}
	if respBody == nil {
		return nil
	}
	return decodeBody(raw, respBody, strict)
}

// send performs a single request. Non-2xx statuses become *HTTPError.
func (c *Client) send(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*rawResponse, error) {
	if c.config.BaseURL == "" {
		return nil, ErrNoBaseURL
	}

	requestID := uuid.NewString()
	ctx = ctxzap.ToContext(ctx, c.logger.With(
		zap.String("op", op),
		zap.String("request_id", requestID),
	))

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set(requestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(data),
			Body:       string(data),
		}
		ctxzap.Info(ctx, "backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", httpErr.Detail),
		)
		return nil, httpErr
	}

	return &rawResponse{ctx: ctx, header: resp.Header, data: data}, nil
}

func decodeBody(raw *rawResponse, respBody any, strict bool) error {
	if len(bytes.TrimSpace(raw.data)) == 0 {
		if strict {
			return &DecodeError{Err: io.ErrUnexpectedEOF}
		}
		return nil
	}
	if err := json.Unmarshal(raw.data, respBody); err != nil {
		if strict {
			return &DecodeError{Err: err}
		}
		ctxzap.Debug(raw.ctx, "ignoring undecodable response body", zap.Error(err))
	}
	return nil
}
