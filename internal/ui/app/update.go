// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.ctrl.Tab() == session.TabQuery {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var c1, c2 tea.Cmd
		m.querySpin, c1 = m.querySpin.Update(msg)
		m.fileSpin, c2 = m.fileSpin.Update(msg)
		return m, tea.Batch(c1, c2)

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case FileIngestResultMsg:
		return m.handleFileIngestResult(msg)

	case TextIngestResultMsg:
		return m.handleTextIngestResult(msg)

	case ExportResultMsg:
		return m.handleExportResult(msg)
	}

	// Everything else (cursor blink, directory reads) goes to the widgets.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.resize()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.ctrl.ToggleTab()
		return m, m.syncFocus()

	case key.Matches(msg, m.keys.ChatTab):
		m.ctrl.SwitchTab(session.TabQuery)
		return m, m.syncFocus()

	case key.Matches(msg, m.keys.SourcesTab):
		m.ctrl.SwitchTab(session.TabIngest)
		return m, m.syncFocus()

	case key.Matches(msg, m.keys.Export):
		return m.startExport()

	case key.Matches(msg, m.keys.Help) && m.helpKeyFree():
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.ctrl.Tab() == session.TabQuery {
		return m.handleChatKey(msg)
	}
	return m.handleSourcesKey(msg)
}

// helpKeyFree reports whether "?" should toggle help instead of being typed.
func (m Model) helpKeyFree() bool {
	if m.ctrl.Tab() == session.TabQuery {
		return m.input.Value() == ""
	}
	if m.ctrl.IngestMode() == session.IngestText {
		return m.textarea.Value() == ""
	}
	return true
}

// syncFocus focuses the text widget of the visible view.
func (m *Model) syncFocus() tea.Cmd {
	m.notice = ""
	if m.ctrl.Tab() == session.TabQuery {
		m.textarea.Blur()
		m.refreshMessages()
		return m.input.Focus()
	}
	m.input.Blur()
	if m.ctrl.IngestMode() == session.IngestText {
		return m.textarea.Focus()
	}
	m.textarea.Blur()
	return nil
}

// =============================================================================
// CHAT TAB
// =============================================================================

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitQuery()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Suggest):
		if m.ctrl.HistoryLen() == 0 {
			if s, ok := m.messages.Empty().Suggestion(suggestionIndex(msg.String())); ok {
				m.input.SetValue(s)
				m.input.CursorEnd()
				m.ctrl.SetDraftQuery(s)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetDraftQuery(m.input.Value())
	return m, cmd
}

// submitQuery starts a query round trip for the current draft.
func (m Model) submitQuery() (tea.Model, tea.Cmd) {
	text, ok := m.ctrl.SubmitQuery(m.input.Value())
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.notice = ""

	spin := m.querySpin.Start()
	m.viewport.GotoBottom()
	m.refreshMessages()
	return m, tea.Batch(QueryCmd(m.deps, text), spin)
}

func (m Model) handleQueryResult(msg QueryResultMsg) (tea.Model, tea.Cmd) {
	m.ctrl.ResolveQuery(msg.Response, msg.Err)
	m.querySpin.Stop()
	m.viewport.GotoBottom()
	m.refreshMessages()
	return m, nil
}

// =============================================================================
// SOURCES TAB
// =============================================================================

func (m Model) handleSourcesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ToggleMode) {
		if m.ctrl.IngestMode() == session.IngestFile {
			m.ctrl.SetIngestMode(session.IngestText)
		} else {
			m.ctrl.SetIngestMode(session.IngestFile)
		}
		return m, m.syncFocus()
	}

	if m.ctrl.IngestMode() == session.IngestText {
		if key.Matches(msg, m.keys.IngestText) {
			return m.startTextIngest()
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		m.ctrl.SetDraftText(m.textarea.Value())
		return m, cmd
	}

	return m.updatePicker(msg)
}

// updatePicker forwards a key to the file picker and starts an upload when
// a file is chosen.
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = noticeDisallowedFile
		m.deps.Logger.Debug("disallowed file selected", zap.String("path", path))
		return m, cmd
	}

	if ok, path := m.picker.DidSelectFile(msg); ok {
		next, upload := m.startFileIngest(path)
		return next, tea.Batch(cmd, upload)
	}
	return m, cmd
}

// startFileIngest claims the ingestion slot and uploads path.
func (m Model) startFileIngest(path string) (Model, tea.Cmd) {
	name := baseName(path)
	if !m.ctrl.BeginFileIngest(name) {
		m.notice = noticeUploadBusy
		return m, nil
	}
	m.notice = ""
	spin := m.fileSpin.Start()
	return m, tea.Batch(IngestFileCmd(m.deps, path), spin)
}

func (m Model) handleFileIngestResult(msg FileIngestResultMsg) (tea.Model, tea.Cmd) {
	m.ctrl.ResolveFileIngest(msg.Name, msg.Err)
	m.fileSpin.Stop()
	return m, nil
}

// startTextIngest sends the draft text with its derived title.
func (m Model) startTextIngest() (tea.Model, tea.Cmd) {
	text, title, ok := m.ctrl.BeginTextIngest()
	if !ok {
		return m, nil
	}
	m.notice = ""
	spin := m.fileSpin.Start()
	return m, tea.Batch(IngestTextCmd(m.deps, text, title), spin)
}

func (m Model) handleTextIngestResult(msg TextIngestResultMsg) (tea.Model, tea.Cmd) {
	m.ctrl.ResolveTextIngest(msg.Err)
	m.fileSpin.Stop()
	if msg.Err == nil {
		m.textarea.Reset()
	}
	return m, nil
}

// =============================================================================
// EXPORT
// =============================================================================

func (m Model) startExport() (tea.Model, tea.Cmd) {
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		m.notice = noticeNothingToSave
		return m, nil
	}
	return m, ExportCmd(m.deps, msgs, m.exportDir)
}

func (m Model) handleExportResult(msg ExportResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.notice = "Export failed: " + msg.Err.Error()
	} else {
		m.notice = "Exported to " + msg.Path
	}
	return m, nil
}
