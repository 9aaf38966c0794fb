// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aura-tui/internal/api"
	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeBackend struct {
	mu        sync.Mutex
	queries   []string
	texts     []string
	titles    []string
	files     []string
	queryResp *api.QueryResponse
	queryErr  error
	ingestErr error
}

func (f *fakeBackend) Query(ctx context.Context, text string) (*api.QueryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, text)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResp, nil
}

func (f *fakeBackend) IngestText(ctx context.Context, text, title string) (*api.IngestResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.titles = append(f.titles, title)
	return &api.IngestResponse{Status: "success"}, f.ingestErr
}

func (f *fakeBackend) IngestFilePath(ctx context.Context, path string) (*api.IngestResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, path)
	return &api.IngestResponse{Status: "success"}, f.ingestErr
}

func (f *fakeBackend) BaseURL() string { return "http://backend.test" }

func newTestModel(t *testing.T, fb *fakeBackend) Model {
	t.Helper()
	m := New(Options{
		Backend:   fb,
		Theme:     styles.NewTheme(),
		ExportDir: t.TempDir(),
		StartDir:  t.TempDir(),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// =============================================================================
// CHAT FLOW
// =============================================================================

func TestSubmitQuery_RoundTrip(t *testing.T) {
	timing := 1.5
	fb := &fakeBackend{queryResp: &api.QueryResponse{
		Answer:    "X",
		Citations: []model.Citation{{Text: "A"}, {Text: "B"}},
		Timing:    &timing,
	}}
	m := newTestModel(t, fb)

	m = typeText(t, m, "  hello  ")
	assert.Equal(t, "  hello  ", m.Controller().DraftQuery())

	m, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.Controller().Typing())
	assert.Equal(t, "", m.input.Value(), "draft clears on submit")
	assert.Equal(t, 1, m.Controller().HistoryLen())

	// Execute the network command directly and feed its result back.
	result := QueryCmd(m.deps, "hello")()
	require.IsType(t, QueryResultMsg{}, result)
	m, _ = update(t, m, result)

	assert.False(t, m.Controller().Typing())
	msgs := m.Controller().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleAI, msgs[1].Role)
	assert.Equal(t, []string{"hello"}, fb.queries)
	assert.Contains(t, m.View(), "Generated in 1.50s")
}

func TestSubmitQuery_WhitespaceAndBusyAreNoops(t *testing.T) {
	m := newTestModel(t, &fakeBackend{queryResp: &api.QueryResponse{Answer: "ok"}})

	m = typeText(t, m, "   ")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Controller().HistoryLen())

	m.input.SetValue("first")
	m, cmd = press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)

	m = typeText(t, m, "second")
	m, cmd = press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd, "no second query while one is in flight")
	assert.Equal(t, 1, m.Controller().HistoryLen())
}

func TestQueryFailureShowsDetail(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.input.SetValue("q")
	m, _ = press(t, m, tea.KeyEnter)

	m, _ = update(t, m, QueryResultMsg{Err: &api.HTTPError{StatusCode: 404, Detail: "index not found"}})
	msgs := m.Controller().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleError, msgs[1].Role)
	assert.Equal(t, "index not found", msgs[1].Content)
}

func TestQueryResultAppliedAfterTabSwitch(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.input.SetValue("q")
	m, _ = press(t, m, tea.KeyEnter)

	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, session.TabIngest, m.Controller().Tab())

	m, _ = update(t, m, QueryResultMsg{Response: &api.QueryResponse{Answer: "late answer"}})
	m, _ = press(t, m, tea.KeyTab)

	assert.False(t, m.Controller().Typing())
	assert.Equal(t, 2, m.Controller().HistoryLen())
	assert.Contains(t, m.View(), "late answer")
}

func TestEmptyStateAndSuggestions(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	assert.Contains(t, m.View(), "How can I help you today?")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	assert.Equal(t, "What are the key risks?", m.input.Value())
	assert.Equal(t, "What are the key risks?", m.Controller().DraftQuery())
}

// =============================================================================
// SOURCES FLOW
// =============================================================================

func TestTextIngestFlow(t *testing.T) {
	fb := &fakeBackend{}
	m := newTestModel(t, fb)

	m, _ = press(t, m, tea.KeyF2)
	m, _ = press(t, m, tea.KeyCtrlO)
	require.Equal(t, session.IngestText, m.Controller().IngestMode())

	// Empty draft never starts.
	m, cmd := press(t, m, tea.KeyCtrlS)
	assert.Nil(t, cmd)

	m = typeText(t, m, "one two three four five six")
	m, cmd = press(t, m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	assert.True(t, m.Controller().Uploading())

	result := IngestTextCmd(m.deps, "one two three four five six", "one two three four five...")()
	m, _ = update(t, m, result)

	assert.False(t, m.Controller().Uploading())
	assert.Equal(t, "", m.Controller().DraftText())
	assert.Equal(t, "", m.textarea.Value())
	assert.Contains(t, m.View(), "[OK] Added text snippet")
	assert.Equal(t, []string{"one two three four five..."}, fb.titles)
}

func TestTextIngestFailureKeepsDraft(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m, _ = press(t, m, tea.KeyF2)
	m, _ = press(t, m, tea.KeyCtrlO)
	m = typeText(t, m, "keep me")
	m, _ = press(t, m, tea.KeyCtrlS)

	m, _ = update(t, m, TextIngestResultMsg{Err: errors.New("boom")})
	assert.Equal(t, "keep me", m.Controller().DraftText())
	assert.Equal(t, "keep me", m.textarea.Value())
	assert.Contains(t, m.View(), "[X] Ingest failed")
}

func TestFileIngestFlow(t *testing.T) {
	fb := &fakeBackend{}
	m := newTestModel(t, fb)
	m, _ = press(t, m, tea.KeyF2)

	m, cmd := m.startFileIngest("/tmp/docs/report.pdf")
	require.NotNil(t, cmd)
	assert.True(t, m.Controller().Uploading())

	// A second selection while uploading is rejected.
	m, cmd = m.startFileIngest("/tmp/docs/other.pdf")
	assert.Nil(t, cmd)
	assert.Equal(t, noticeUploadBusy, m.Notice())

	result := IngestFileCmd(m.deps, "/tmp/docs/report.pdf")()
	require.Equal(t, "report.pdf", result.(FileIngestResultMsg).Name)
	m, _ = update(t, m, result)

	assert.Contains(t, m.View(), "[OK] Added report.pdf")
	assert.Equal(t, []string{"/tmp/docs/report.pdf"}, fb.files)
}

func TestFileIngestUploadsAnyExtensionOnce(t *testing.T) {
	fb := &fakeBackend{}
	m := newTestModel(t, fb)
	m, _ = press(t, m, tea.KeyF2)

	m, cmd := m.startFileIngest("/tmp/docs/notes.csv")
	require.NotNil(t, cmd)
	m, _ = update(t, m, IngestFileCmd(m.deps, "/tmp/docs/notes.csv")())

	assert.Contains(t, m.View(), "[OK] Added notes.csv")
	assert.Equal(t, []string{"/tmp/docs/notes.csv"}, fb.files)
}

func TestFileIngestFailureIsGeneric(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m, _ = press(t, m, tea.KeyF2)
	m, _ = m.startFileIngest("report.pdf")

	m, _ = update(t, m, FileIngestResultMsg{Name: "report.pdf", Err: &api.HTTPError{StatusCode: 400, Detail: "bad pdf"}})
	view := m.View()
	assert.Contains(t, view, "[X] Upload failed")
	assert.NotContains(t, view, "bad pdf")
}

// =============================================================================
// EXPORT AND CHROME
// =============================================================================

func TestExport(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	m, cmd := press(t, m, tea.KeyCtrlE)
	assert.Nil(t, cmd)
	assert.Equal(t, noticeNothingToSave, m.Notice())

	m.input.SetValue("q")
	m, _ = press(t, m, tea.KeyEnter)
	m, _ = update(t, m, QueryResultMsg{Response: &api.QueryResponse{Answer: "a", Citations: []model.Citation{{Text: "cite"}}}})

	m, cmd = press(t, m, tea.KeyCtrlE)
	require.NotNil(t, cmd)
	result := cmd().(ExportResultMsg)
	require.NoError(t, result.Err)
	assert.Equal(t, m.exportDir, filepath.Dir(result.Path))

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[1] cite")

	m, _ = update(t, m, result)
	assert.True(t, strings.HasPrefix(m.Notice(), "Exported to "))
}

func TestHeaderAndHelp(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	view := m.View()
	assert.Contains(t, view, "Aura RAG")
	assert.Contains(t, view, "Chat")
	assert.Contains(t, view, "Sources")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.showHelp, "? toggles help when the draft is empty")

	m = typeText(t, m, "why")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, "why?", m.input.Value(), "? is typed once the draft has text")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	_, cmd := press(t, m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
