// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to disk.
//
// # Supported Formats
//
//   - Markdown: human-readable, with numbered citations and timing
//   - JSON: machine-readable, one object per message
//
// # Usage
//
//	t := export.NewTranscript(messages, client.BaseURL())
//	path, err := export.ExportFormat(t, export.FormatMarkdown, opts)
package export
