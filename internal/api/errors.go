// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Sentinel errors for input rejected before any request is made.
var (
	ErrEmptyQuery = errors.New("query text is empty")
	ErrEmptyText  = errors.New("ingest text is empty")
	ErrNoBaseURL  = errors.New("backend URL is not configured")
)

// NetworkError is a transport-level failure: connection refused, DNS,
// timeouts, or a body that could not be read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a response with a status outside 2xx.
type HTTPError struct {
	StatusCode int
	// Detail is the backend-supplied human readable message, "" if absent.
	Detail string
	// Body is the raw response body.
	Body string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, body)
}

// DecodeError is a 2xx response whose body was not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsHTTPError reports whether err is (or wraps) an HTTPError.
func IsHTTPError(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// ErrorDetail returns the backend detail message carried by err.
// The second result is false for network errors, decode errors, and HTTP
// errors whose body had no usable detail.
func ErrorDetail(err error) (string, bool) {
	var he *HTTPError
	if !errors.As(err, &he) || he.Detail == "" {
		return "", false
	}
	return he.Detail, true
}

// parseDetail extracts the "detail" field from an error body.
// A string detail is returned unchanged unless it is blank; a list of validation objects has
// their "msg" fields joined with "; ".
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return ""
		}
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if m := strings.TrimSpace(item.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
