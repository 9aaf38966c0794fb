// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the bubbletea root model of the aura TUI.
//
// The model translates key and mouse events into session.Controller
// transitions, runs network calls as tea.Cmd closures and applies their
// result messages back to the controller. All state changes happen inside
// Update.
package app

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/logging"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/components"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// AllowedFileTypes is the file picker filter. It is a UX hint only; the
// backend decides what it can parse.
var AllowedFileTypes = []string{".pdf", ".txt", ".md"}

// Fixed notices.
const (
	noticeDisallowedFile = "Only .pdf, .txt and .md files can be selected"
	noticeNothingToSave  = "Nothing to export yet"
	noticeUploadBusy     = "An upload is already in progress"
)

// Layout constants.
const (
	headerHeight    = 2 // brand line + bottom border
	statusBarHeight = 1
	inputHeight     = 3 // rounded border around one line
	textareaHeight  = 8
	minBodyHeight   = 3
)

// Options configures a new Model.
type Options struct {
	Backend        Backend
	Logger         *zap.Logger
	Theme          *styles.Theme
	RequestTimeout time.Duration
	ExportDir      string
	StartDir       string // initial file picker directory
}

// Model is the root bubbletea model.
type Model struct {
	ctrl *session.Controller
	deps Deps

	// Appearance
	theme *styles.Theme
	keys  KeyMap
	help  help.Model

	// Widgets
	input    textinput.Model
	textarea textarea.Model
	viewport viewport.Model
	picker   filepicker.Model

	// Components
	header    *components.Header
	messages  *components.MessageList
	statusBar *components.StatusBar
	querySpin components.Spinner
	fileSpin  components.Spinner

	exportDir string
	notice    string
	showHelp  bool

	width  int
	height int
	ready  bool
}

// New creates the root model.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	input := textinput.New()
	input.Placeholder = "Ask a question about your documents..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.Focus()

	ta := textarea.New()
	ta.Placeholder = "Paste text to add to the knowledge base..."
	ta.ShowLineNumbers = false
	ta.SetHeight(textareaHeight)

	picker := filepicker.New()
	picker.AllowedTypes = AllowedFileTypes
	picker.CurrentDirectory = startDir(opts.StartDir)
	picker.ShowHidden = false
	picker.AutoHeight = false
	picker.Height = 10

	md := components.NewMarkdown(theme)
	list := components.NewMessageList(theme)
	list.Markdown = md

	return Model{
		ctrl: session.New(),
		deps: Deps{
			Backend: opts.Backend,
			Logger:  logger,
			Timeout: opts.RequestTimeout,
		},
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     input,
		textarea:  ta,
		viewport:  viewport.New(80, 20),
		picker:    picker,
		header:    components.NewHeader(theme),
		messages:  list,
		statusBar: components.NewStatusBar(theme),
		querySpin: components.NewSpinner(theme, "Aura is thinking"),
		fileSpin:  components.NewSpinner(theme, "Uploading"),
		exportDir: opts.ExportDir,
	}
}

func startDir(dir string) string {
	if dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Init starts the cursor blink and the first directory read.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.picker.Init())
}

// Controller exposes the interaction state, mainly for tests.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

// Notice returns the transient status line text.
func (m Model) Notice() string {
	return m.notice
}

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes widget sizes for the current window.
func (m *Model) resize() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.help.Width = m.width

	inner := max(m.width-4, 10)
	m.input.Width = inner - len(m.input.Prompt) - 1
	m.textarea.SetWidth(inner)

	body := max(m.height-headerHeight-statusBarHeight-inputHeight, minBodyHeight)
	m.viewport.Width = m.width
	m.viewport.Height = body
	m.picker.Height = max(body-12, 3)

	m.messages.SetSize(m.theme.ContentWidth(), body)
	m.refreshMessages()
}

// refreshMessages re-renders the history into the viewport, keeping the
// bottom pinned when the user was already there.
func (m *Model) refreshMessages() {
	atBottom := m.viewport.AtBottom()
	m.messages.SetMessages(m.ctrl.Messages())
	m.viewport.SetContent(centerBlock(m.messages.View(), m.width))
	if atBottom || m.ctrl.Typing() {
		m.viewport.GotoBottom()
	}
}
