// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// RetryConfig controls WaitReady.
type RetryConfig struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the retry policy used by the status command.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: 3,
		Delay:    250 * time.Millisecond,
		MaxDelay: 2 * time.Second,
	}
}

// ToRetryOptions converts the config into retry-go options.
func (rc RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
	}
}

// ErrUnhealthy is returned when the backend answers but does not report "ok".
var ErrUnhealthy = errors.New("backend reported unhealthy status")

// WaitReady pings the backend until it reports healthy or the attempts run out.
// Only the health check is retried; Query and the ingest calls never are.
func (c *Client) WaitReady(ctx context.Context, rc RetryConfig) (*HealthResponse, error) {
	opts := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("backend not ready, retrying",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)

	return retry.DoWithData(func() (*HealthResponse, error) {
		health, err := c.Ping(ctx)
		if err != nil {
			return nil, err
		}
		if !health.OK() {
			return nil, fmt.Errorf("%w: %q", ErrUnhealthy, health.Status)
		}
		return health, nil
	}, opts...)
}

// retryable reports whether a health check failure may succeed later.
// Client errors (4xx) will not.
func retryable(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= http.StatusInternalServerError || he.StatusCode == http.StatusTooManyRequests
	}
	var de *DecodeError
	return !errors.As(err, &de)
}
