// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// KeyHint is a single "key description" pair in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// StatusBar shows the current activity on the left and key hints on the
// right. Hints are dropped from the end until the bar fits.
type StatusBar struct {
	Activity string
	Hints    []KeyHint
	Width    int
	theme    *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	avail := s.Width - s.theme.StatusBar.GetHorizontalFrameSize()
	left := s.Activity
	leftW := lipgloss.Width(left)

	hints := s.Hints
	var right string
	for len(hints) > 0 {
		right = s.renderHints(hints)
		if leftW+lipgloss.Width(right)+2 <= avail {
			break
		}
		hints = hints[:len(hints)-1]
		right = ""
	}

	gap := max(avail-leftW-lipgloss.Width(right), 0)
	return s.theme.StatusBar.Width(max(s.Width, 1)).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderHints(hints []KeyHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, s.theme.ShortcutKey.Render(h.Key)+" "+s.theme.ShortcutDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
