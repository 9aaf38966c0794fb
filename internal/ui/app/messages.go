// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/aura-tui/internal/api"
)

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// QueryResultMsg carries the outcome of a query round trip.
type QueryResultMsg struct {
	Query    string
	Response *api.QueryResponse
	Err      error
}

// FileIngestResultMsg carries the outcome of a file upload.
type FileIngestResultMsg struct {
	Name string // base name shown to the user
	Path string
	Err  error
}

// TextIngestResultMsg carries the outcome of a text ingestion.
type TextIngestResultMsg struct {
	Title string
	Err   error
}

// ExportResultMsg carries the outcome of a transcript export.
type ExportResultMsg struct {
	Path string
	Err  error
}
