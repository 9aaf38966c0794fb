// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// =============================================================================
// HTTP OPTIONS
// =============================================================================

// TransportFunc wraps a RoundTripper.
type TransportFunc func(http.RoundTripper) http.RoundTripper

// HTTPOption customizes the underlying http.Client.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	// requestTimeout of zero means requests never time out.
	requestTimeout  time.Duration
	dialTimeout     time.Duration
	keepAlive       time.Duration
	idleConnTimeout time.Duration
	maxIdleConns    int
	base            http.RoundTripper
	transports      []TransportFunc
}

func defaultHTTPConfig() *httpConfig {
	return &httpConfig{
		requestTimeout:  0,
		dialTimeout:     10 * time.Second,
		keepAlive:       30 * time.Second,
		idleConnTimeout: 90 * time.Second,
		maxIdleConns:    10,
	}
}

// WithRequestTimeout bounds each request. Zero disables the bound.
func WithRequestTimeout(timeout time.Duration) HTTPOption {
	return func(c *httpConfig) {
		c.requestTimeout = timeout
	}
}

// WithBaseTransport replaces the default *http.Transport.
func WithBaseTransport(rt http.RoundTripper) HTTPOption {
	return func(c *httpConfig) {
		c.base = rt
	}
}

// WithTransport appends a RoundTripper wrapper. Wrappers are applied in order,
// so the last one added sees the request first.
func WithTransport(fn TransportFunc) HTTPOption {
	return func(c *httpConfig) {
		c.transports = append(c.transports, fn)
	}
}

// WithAuthToken sends "Authorization: Bearer <token>" on every request.
// An empty token is a no-op.
func WithAuthToken(token string) HTTPOption {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{token: token, transport: rt}
	})
}

// WithRequestLogging logs every outbound request and its outcome through the
// logger stored in the request context.
func WithRequestLogging() HTTPOption {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{transport: rt}
	})
}

func newHTTPClient(opts ...HTTPOption) *http.Client {
	cfg := defaultHTTPConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	transport := cfg.base
	if transport == nil {
		dialer := &net.Dialer{
			Timeout:   cfg.dialTimeout,
			KeepAlive: cfg.keepAlive,
		}
		transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			DialContext:     dialer.DialContext,
			MaxIdleConns:    cfg.maxIdleConns,
			IdleConnTimeout: cfg.idleConnTimeout,
		}
	}
	for _, wrap := range cfg.transports {
		transport = wrap(transport)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: transport,
	}
}

// =============================================================================
// ROUND TRIPPERS
// =============================================================================

type authTransport struct {
	token     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.transport.RoundTrip(req)
	}
	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set("Authorization", "Bearer "+t.token)
	return t.transport.RoundTrip(reqCopy)
}

// payloadContextKey carries the JSON request body for the logging transport.
type payloadContextKey struct{}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	}
	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		fields = append(fields, zap.Int("payload_bytes", len(payload)))
	}
	if req.ContentLength > 0 {
		fields = append(fields, zap.Int64("content_length", req.ContentLength))
	}
	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)
	elapsed := zap.Duration("elapsed", time.Since(start))
	if err != nil {
		ctxzap.Warn(ctx, "HTTP request failed", append(fields, elapsed, zap.Error(err))...)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP response", append(fields, elapsed, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}
