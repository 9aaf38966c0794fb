// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, the active tab and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	m.header.SetTabs(
		components.Tab{Label: session.TabQuery.String(), Key: "F1", Active: m.ctrl.Tab() == session.TabQuery, Busy: m.ctrl.Typing()},
		components.Tab{Label: session.TabIngest.String(), Key: "F2", Active: m.ctrl.Tab() == session.TabIngest, Busy: m.ctrl.Uploading()},
	)

	var body string
	if m.ctrl.Tab() == session.TabQuery {
		body = m.viewChat()
	} else {
		body = m.viewSources()
	}

	parts := []string{m.header.View(), body}
	if m.showHelp {
		m.help.ShowAll = true
		parts = append(parts, m.help.View(m.keys))
	}
	parts = append(parts, m.viewStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// CHAT TAB
// =============================================================================

func (m Model) viewChat() string {
	// The border dims while a query is in flight.
	box := m.theme.InputContainer
	if m.input.Focused() && !m.ctrl.Typing() {
		box = m.theme.InputContainerFocused
	}
	input := box.Width(max(m.width-2, 10)).Render(m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), input)
}

// =============================================================================
// SOURCES TAB
// =============================================================================

func (m Model) viewSources() string {
	var b strings.Builder

	b.WriteString(m.theme.SectionTitle.Render("Add sources"))
	b.WriteString("\n")
	b.WriteString(m.theme.SectionHint.Render("Upload documents or paste text to build the knowledge base."))
	b.WriteString("\n\n")
	b.WriteString(m.viewModeSwitch())
	b.WriteString("\n\n")

	if m.ctrl.IngestMode() == session.IngestFile {
		b.WriteString(m.viewFileMode())
	} else {
		b.WriteString(m.viewTextMode())
	}

	if spin := m.fileSpin.View(); spin != "" {
		b.WriteString("\n\n")
		b.WriteString(spin)
	}
	status, ok := m.ctrl.UploadStatus()
	if line := components.UploadStatus(m.theme, status, ok); line != "" {
		b.WriteString("\n\n")
		b.WriteString(line)
	}

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	return lipgloss.NewStyle().
		Height(m.viewport.Height + inputHeight).
		MaxHeight(m.viewport.Height + inputHeight).
		Render(content)
}

func (m Model) viewModeSwitch() string {
	file, text := m.theme.ModeInactive, m.theme.ModeInactive
	if m.ctrl.IngestMode() == session.IngestFile {
		file = m.theme.ModeActive
	} else {
		text = m.theme.ModeActive
	}
	hint := m.theme.ShortcutKey.Render(m.keys.ToggleMode.Help().Key) + " " +
		m.theme.ShortcutDesc.Render(m.keys.ToggleMode.Help().Desc)
	return file.Render("File") + "  " + text.Render("Text") + "   " + hint
}

func (m Model) viewFileMode() string {
	hint := m.theme.SectionHint.Render("Select a file (" + strings.Join(AllowedFileTypes, ", ") + ") and press enter to upload.")
	picker := m.theme.DropZone.Width(max(m.width-8, 10)).Render(
		m.theme.SectionHint.Render(m.picker.CurrentDirectory) + "\n" + m.picker.View(),
	)
	return hint + "\n" + picker
}

func (m Model) viewTextMode() string {
	area := m.theme.InputContainerFocused.Render(m.textarea.View())

	button := m.theme.ButtonDisabled.Render("Ingest text")
	if m.ctrl.CanIngestText() {
		button = m.theme.Button.Render("Ingest text")
	}
	hint := m.theme.ShortcutKey.Render(m.keys.IngestText.Help().Key)
	return area + "\n" + button + " " + hint
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) viewStatusBar() string {
	var activity []string
	if v := m.querySpin.View(); v != "" {
		activity = append(activity, v)
	}
	if v := m.fileSpin.View(); v != "" && m.ctrl.Tab() == session.TabQuery {
		activity = append(activity, v)
	}
	if len(activity) == 0 && m.notice != "" {
		activity = append(activity, m.notice)
	}
	m.statusBar.Activity = strings.Join(activity, "  ")

	hints := make([]components.KeyHint, 0, 5)
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, components.KeyHint{Key: b.Help().Key, Desc: b.Help().Desc})
	}
	if m.ctrl.Tab() == session.TabIngest {
		hints[0] = components.KeyHint{Key: m.keys.ToggleMode.Help().Key, Desc: m.keys.ToggleMode.Help().Desc}
	}
	m.statusBar.Hints = hints
	return m.statusBar.View()
}

// =============================================================================
// HELPERS
// =============================================================================

// centerBlock horizontally centers a rendered block within width.
func centerBlock(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func baseName(path string) string {
	return filepath.Base(path)
}
