// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/api"
	"github.com/jeranaias/aura-tui/internal/export"
	"github.com/jeranaias/aura-tui/internal/logging"
	"github.com/jeranaias/aura-tui/internal/model"
)

// Backend is the subset of the API client the UI needs.
type Backend interface {
	Query(ctx context.Context, text string) (*api.QueryResponse, error)
	IngestText(ctx context.Context, text, title string) (*api.IngestResponse, error)
	IngestFilePath(ctx context.Context, path string) (*api.IngestResponse, error)
	BaseURL() string
}

// Deps bundles what the command creators need.
type Deps struct {
	Backend Backend
	Logger  *zap.Logger
	Timeout time.Duration // 0 means no deadline
}

// requestContext returns a context carrying the logger and, when set, the
// configured deadline.
func (d Deps) requestContext() (context.Context, context.CancelFunc) {
	ctx := logging.WithLogger(context.Background(), d.Logger)
	if d.Timeout > 0 {
		return context.WithTimeout(ctx, d.Timeout)
	}
	return context.WithCancel(ctx)
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// QueryCmd sends text to the backend and reports a QueryResultMsg.
func QueryCmd(d Deps, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := d.requestContext()
		defer cancel()

		start := time.Now()
		resp, err := d.Backend.Query(ctx, text)
		if err != nil {
			ctxzap.Extract(ctx).Warn("query failed", zap.Error(err))
		} else {
			ctxzap.Extract(ctx).Info("query answered",
				zap.Int("citations", len(resp.Citations)),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		return QueryResultMsg{Query: text, Response: resp, Err: err}
	}
}

// IngestFileCmd uploads the file at path and reports a FileIngestResultMsg.
func IngestFileCmd(d Deps, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := d.requestContext()
		defer cancel()

		name := filepath.Base(path)
		_, err := d.Backend.IngestFilePath(ctx, path)
		if err != nil {
			ctxzap.Extract(ctx).Warn("file ingest failed", zap.String("file", name), zap.Error(err))
		} else {
			ctxzap.Extract(ctx).Info("file ingested", zap.String("file", name))
		}
		return FileIngestResultMsg{Name: name, Path: path, Err: err}
	}
}

// IngestTextCmd ingests a text snippet and reports a TextIngestResultMsg.
func IngestTextCmd(d Deps, text, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := d.requestContext()
		defer cancel()

		_, err := d.Backend.IngestText(ctx, text, title)
		if err != nil {
			ctxzap.Extract(ctx).Warn("text ingest failed", zap.String("title", title), zap.Error(err))
		} else {
			ctxzap.Extract(ctx).Info("text ingested", zap.String("title", title), zap.Int("bytes", len(text)))
		}
		return TextIngestResultMsg{Title: title, Err: err}
	}
}

// ExportCmd writes the transcript to Markdown in dir.
func ExportCmd(d Deps, messages []model.Message, dir string) tea.Cmd {
	return func() tea.Msg {
		opts := export.DefaultOptions()
		if dir != "" {
			opts.OutputDir = dir
		}

		var baseURL string
		if d.Backend != nil {
			baseURL = d.Backend.BaseURL()
		}

		path, err := export.ExportFormat(export.NewTranscript(messages, baseURL), export.FormatMarkdown, opts)
		logger := d.Logger
		if logger == nil {
			logger = logging.Nop()
		}
		if err != nil {
			logger.Warn("export failed", zap.Error(err))
		} else {
			logger.Info("transcript exported", zap.String("path", path))
		}
		return ExportResultMsg{Path: path, Err: err}
	}
}
