// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// EmptyTitle is the greeting shown before the first message.
const EmptyTitle = "How can I help you today?"

// DefaultSuggestions are the starter queries offered on an empty chat.
var DefaultSuggestions = []string{
	"Summarize the latest report",
	"What are the key risks?",
	"Explain the methodology",
}

// EmptyState is the placeholder shown while the chat history is empty.
type EmptyState struct {
	Suggestions []string
	Width       int
	Height      int
	theme       *styles.Theme
}

// NewEmptyState creates an empty state with the default suggestions.
func NewEmptyState(theme *styles.Theme) *EmptyState {
	return &EmptyState{
		Suggestions: DefaultSuggestions,
		Width:       80,
		theme:       theme,
	}
}

// SetSize updates the available area.
func (e *EmptyState) SetSize(width, height int) {
	e.Width = width
	e.Height = height
}

// View renders the greeting and numbered suggestions, centered.
func (e *EmptyState) View() string {
	lines := []string{
		e.theme.EmptyTitle.Render(EmptyTitle),
		e.theme.EmptyHint.Render("Ask a question about your documents."),
		"",
	}
	for i, s := range e.Suggestions {
		key := e.theme.ShortcutKey.Render("alt+" + strconv.Itoa(i+1))
		lines = append(lines, key+" "+e.theme.Suggestion.Render(Truncate(s, max(e.Width-12, 10))))
	}

	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if e.Height <= 0 {
		return lipgloss.PlaceHorizontal(e.Width, lipgloss.Center, block)
	}
	return lipgloss.Place(e.Width, e.Height, lipgloss.Center, lipgloss.Center, block)
}

// Suggestion returns the n-th suggestion (1-based).
func (e *EmptyState) Suggestion(n int) (string, bool) {
	if n < 1 || n > len(e.Suggestions) {
		return "", false
	}
	return e.Suggestions[n-1], true
}
