// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// Glamour standard style names.
const (
	MarkdownDark  = "dark"
	MarkdownLight = "light"
	MarkdownPlain = "notty"
)

// Markdown renders answer text with glamour. Renderers are built lazily and
// cached per wrap width. When rendering fails the raw text is returned.
type Markdown struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown returns a renderer matching the theme background.
func NewMarkdown(theme *styles.Theme) *Markdown {
	style := MarkdownLight
	if theme == nil || theme.IsDark {
		style = MarkdownDark
	}
	return NewMarkdownWithStyle(style)
}

// NewMarkdownWithStyle returns a renderer for a glamour standard style.
func NewMarkdownWithStyle(style string) *Markdown {
	return &Markdown{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render formats content for the given width.
func (m *Markdown) Render(content string, width int) string {
	if m == nil || strings.TrimSpace(content) == "" {
		return content
	}

	r, err := m.renderer(width)
	if err != nil {
		return Wrap(content, width)
	}

	out, err := r.Render(content)
	if err != nil {
		return Wrap(content, width)
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
