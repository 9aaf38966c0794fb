// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the stateless view pieces of the aura TUI.

Each component takes a *styles.Theme and plain data and returns a string; the
app model owns all state and decides what to render.

# Display Components

Header (header.go) - Brand plus the Chat and Sources tabs with busy markers.
MessageBubble (message.go) - One chat message with citations and timing.
MessageList (message.go) - The whole history, or the empty state.
EmptyState (empty.go) - Greeting and query suggestions.
UploadStatus (status.go) - Outcome line of the last ingestion.
StatusBar (statusbar.go) - Key hints and the current activity.

# Rendering Helpers

Markdown (markdown.go) - Cached glamour renderer keyed by width.
Wrap / Truncate (text.go) - Width-aware helpers built on go-runewidth.
Spinner (spinner.go) - Activity spinner with elapsed time.
*/
package components
