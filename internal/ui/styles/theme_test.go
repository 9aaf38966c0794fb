// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"TabActive", theme.TabActive},
		{"UserBubble", theme.UserBubble},
		{"AIBubble", theme.AIBubble},
		{"ErrorBubble", theme.ErrorBubble},
		{"CitationIndex", theme.CitationIndex},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
	}

	for _, s := range styles {
		if s.style.Render("test") == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

func TestNewThemeForMode(t *testing.T) {
	defer lipgloss.SetHasDarkBackground(true)

	if !NewThemeForMode(ModeDark).IsDark {
		t.Error("dark mode should produce a dark theme")
	}
	if NewThemeForMode(ModeLight).IsDark {
		t.Error("light mode should produce a light theme")
	}
	if NewThemeForMode("LIGHT").IsDark {
		t.Error("mode should be case-insensitive")
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestContentWidth(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(8, 24)
	if got := theme.ContentWidth(); got != 10 {
		t.Errorf("narrow minimum: got %d, want 10", got)
	}

	theme.SetSize(80, 24)
	if got := theme.ContentWidth(); got != 74 {
		t.Errorf("medium: got %d, want 74", got)
	}

	theme.SetSize(300, 24)
	if got := theme.ContentWidth(); got != 120 {
		t.Errorf("wide cap: got %d, want 120", got)
	}
}
