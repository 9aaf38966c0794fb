// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/aura-tui/internal/api"
)

// Exit codes returned by the aura binary.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitNetworkError = 5
)

// UsageError reports invalid command usage.
type UsageError struct {
	Command string
	Reason  string
}

func (e *UsageError) Error() string {
	if e.Command == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s (see 'aura help')", e.Command, e.Reason)
}

// NewUsageError creates a UsageError.
func NewUsageError(command, reason string) error {
	return &UsageError{Command: command, Reason: reason}
}

// ConfigError wraps a failure to load or validate configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "config: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ue *UsageError
	if errors.As(err, &ue) {
		return ExitUsageError
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ExitConfigError
	}
	if api.IsNetworkError(err) {
		return ExitNetworkError
	}
	return ExitGeneralError
}

// describeError turns a backend error into a one-line message for the
// terminal, preferring the backend's detail.
func describeError(err error) string {
	if detail, ok := api.ErrorDetail(err); ok {
		return detail
	}
	return err.Error()
}

// BackendError is returned when a backend call made by a command fails.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, describeError(e.Err))
}

func (e *BackendError) Unwrap() error { return e.Err }
