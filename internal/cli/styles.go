// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Indigo)

	// LabelStyle is used for left-aligned field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(12)

	// PromptStyle renders the chat REPL prompt.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Indigo)

	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// CitationStyle renders citation indices and sources.
	CitationStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan)
)

// RenderLabel renders a fixed-width field label.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}
