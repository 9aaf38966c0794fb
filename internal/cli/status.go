// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// StatusReport is the data printed by the status command.
type StatusReport struct {
	Backend     string `json:"backend"`
	Environment string `json:"environment"`
	Healthy     bool   `json:"healthy"`
	Status      string `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	LatencyMS   int64  `json:"latency_ms"`
}

// checkStatus pings the backend with the configured retry policy.
func checkStatus(ctx context.Context, env *Env) (*StatusReport, error) {
	report := &StatusReport{
		Backend:     env.Client.BaseURL(),
		Environment: env.Config.Environment,
	}

	start := time.Now()
	health, err := env.Client.WaitReady(ctx, env.Retry)
	report.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		return report, &BackendError{Op: "status", Err: err}
	}

	report.Healthy = true
	report.Status = health.Status
	report.Message = health.Message
	return report, nil
}

// HandleStatus checks backend health.
//
//	aura status
//	aura status --json
func HandleStatus(ctx context.Context, env *Env) error {
	if env.Args.JSON {
		return OutputJSON(env.Out, "status", func() (any, error) {
			return checkStatus(ctx, env)
		})
	}

	report, err := checkStatus(ctx, env)

	fmt.Fprintln(env.Out, env.render(TitleStyle, "Aura backend"))
	fmt.Fprintln(env.Out, env.label("Backend")+report.Backend)
	fmt.Fprintln(env.Out, env.label("Environment")+report.Environment)
	if err != nil {
		fmt.Fprintln(env.Out, env.label("Status")+env.status(false, describeError(unwrapBackend(err))))
		return err
	}

	fmt.Fprintln(env.Out, env.label("Status")+env.status(true, report.Status))
	if report.Message != "" {
		fmt.Fprintln(env.Out, env.label("Message")+report.Message)
	}
	fmt.Fprintln(env.Out, env.label("Latency")+fmt.Sprintf("%dms", report.LatencyMS))
	return nil
}

func unwrapBackend(err error) error {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Err
	}
	return err
}
