// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Brand is the product name shown in the header.
const Brand = "Aura RAG"

// busyMarker is appended to a tab label while its request is in flight.
const busyMarker = " *"

// Tab is one entry in the header tab strip.
type Tab struct {
	Label  string
	Key    string // shortcut hint, e.g. "F1"
	Active bool
	Busy   bool
}

// Header renders the brand on the left and the tab strip on the right.
type Header struct {
	Title string
	Tabs  []Tab
	Width int
	theme *styles.Theme
}

// NewHeader creates a header with the default brand.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: Brand,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTabs replaces the tab strip.
func (h *Header) SetTabs(tabs ...Tab) {
	h.Tabs = tabs
}

// View renders the header.
func (h *Header) View() string {
	brand := h.theme.HeaderBrand.Render(h.Title)
	tabs := h.renderTabs(h.Width >= 60)

	gap := h.Width - lipgloss.Width(brand) - lipgloss.Width(tabs) - h.theme.Header.GetHorizontalFrameSize()
	if gap < 1 {
		// Too narrow for both; tabs win.
		return h.theme.Header.Width(max(h.Width, 1)).Render(tabs)
	}

	line := brand + strings.Repeat(" ", gap) + tabs
	return h.theme.Header.Render(line)
}

func (h *Header) renderTabs(withKeys bool) string {
	parts := make([]string, 0, len(h.Tabs))
	for _, tab := range h.Tabs {
		label := tab.Label
		if withKeys && tab.Key != "" {
			label = tab.Key + " " + label
		}
		if tab.Busy {
			label += busyMarker
		}

		style := h.theme.TabInactive
		if tab.Active {
			style = h.theme.TabActive
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
