// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/config"
	"github.com/jeranaias/aura-tui/internal/export"
	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/session"
)

// =============================================================================
// LINE EDITING
// =============================================================================

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor. History is kept in
// ~/.aura/chat_history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeSlashCommand)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}

	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// ReadInput prompts for one line and records it in the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history (0600) and restores the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

var slashCommands = []string{"/help", "/ingest ", "/text ", "/export", "/quit"}

func completeSlashCommand(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, cmd := range slashCommands {
		if strings.HasPrefix(cmd, line) {
			out = append(out, cmd)
		}
	}
	return out
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession runs the chat and ingestion flows for the REPL on top of a
// session.Controller, the same state machine the TUI uses.
type ChatSession struct {
	env  *Env
	ctrl *session.Controller
	out  io.Writer
}

// NewChatSession creates a session writing to env.Out.
func NewChatSession(env *Env) *ChatSession {
	return &ChatSession{
		env:  env,
		ctrl: session.New(),
		out:  env.Out,
	}
}

// Controller exposes the session state.
func (s *ChatSession) Controller() *session.Controller {
	return s.ctrl
}

// HandleChat runs the interactive REPL until /quit, Ctrl+C or EOF.
func HandleChat(ctx context.Context, env *Env) error {
	s := NewChatSession(env)
	input := NewChatCLI()
	defer input.Close()

	s.printWelcome()

	for {
		line, err := input.ReadInput("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if !s.ProcessLine(ctx, line) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// ProcessLine handles one line of input. It returns false when the user
// asked to leave.
func (s *ChatSession) ProcessLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return true
	case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
		return false
	case strings.HasPrefix(line, "/"):
		return s.handleSlashCommand(ctx, line)
	default:
		s.ask(ctx, line)
		return true
	}
}

func (s *ChatSession) handleSlashCommand(ctx context.Context, line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "/quit", "/exit", "/q":
		return false
	case "/help", "/h", "/?":
		s.printHelp()
	case "/ingest", "/upload":
		s.ingestFile(ctx, rest)
	case "/text":
		s.ingestText(ctx, rest)
	case "/export":
		s.export(rest)
	default:
		fmt.Fprintln(s.out, s.env.status(false, fmt.Sprintf("Unknown command %s (try /help)", name)))
	}
	return true
}

// ask runs one query round trip and prints the resulting message.
func (s *ChatSession) ask(ctx context.Context, text string) {
	query, ok := s.ctrl.SubmitQuery(text)
	if !ok {
		return
	}
	fmt.Fprintln(s.out, s.env.render(DimStyle, "Thinking..."))

	resp, err := s.env.Client.Query(ctx, query)
	if err != nil {
		s.env.Logger.Warn("query failed", zap.Error(err))
	}
	s.ctrl.ResolveQuery(resp, err)

	msgs := s.ctrl.Messages()
	last := msgs[len(msgs)-1]
	fmt.Fprintln(s.out)
	if last.Role == model.RoleError {
		fmt.Fprintln(s.out, s.env.status(false, last.Content))
	} else {
		fmt.Fprintln(s.out, s.env.render(PromptStyle, model.RoleAI.DisplayName()+">"))
		printAnswer(s.out, s.env, last)
	}
	fmt.Fprintln(s.out)
}

func (s *ChatSession) ingestFile(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(s.out, s.env.status(false, "Usage: /ingest <file>"))
		return
	}
	name := filepath.Base(path)
	if !s.ctrl.BeginFileIngest(name) {
		return
	}
	_, err := s.env.Client.IngestFilePath(ctx, path)
	if err != nil {
		s.env.Logger.Warn("file ingest failed", zap.String("file", path), zap.Error(err))
	}
	s.ctrl.ResolveFileIngest(name, err)
	s.printUploadStatus()
}

func (s *ChatSession) ingestText(ctx context.Context, text string) {
	s.ctrl.SetDraftText(text)
	body, title, ok := s.ctrl.BeginTextIngest()
	if !ok {
		fmt.Fprintln(s.out, s.env.status(false, "Usage: /text <snippet>"))
		return
	}
	_, err := s.env.Client.IngestText(ctx, body, title)
	if err != nil {
		s.env.Logger.Warn("text ingest failed", zap.Error(err))
	}
	s.ctrl.ResolveTextIngest(err)
	s.printUploadStatus()
}

func (s *ChatSession) printUploadStatus() {
	if st, ok := s.ctrl.UploadStatus(); ok {
		fmt.Fprintln(s.out, s.env.status(st.IsSuccess(), st.Message))
	}
}

func (s *ChatSession) export(arg string) {
	format := export.FormatMarkdown
	if arg != "" {
		f, err := export.ParseFormat(arg)
		if err != nil {
			fmt.Fprintln(s.out, s.env.status(false, err.Error()))
			return
		}
		format = f
	}

	opts := export.DefaultOptions()
	opts.OutputDir = s.env.Config.UI.ExportDir

	t := export.NewTranscript(s.ctrl.Messages(), s.env.Client.BaseURL())
	path, err := export.ExportFormat(t, format, opts)
	if err != nil {
		if errors.Is(err, export.ErrEmptyTranscript) {
			fmt.Fprintln(s.out, s.env.status(false, "Nothing to export yet"))
			return
		}
		fmt.Fprintln(s.out, s.env.status(false, "Export failed: "+err.Error()))
		return
	}
	fmt.Fprintln(s.out, s.env.status(true, "Exported to "+path))
}

func (s *ChatSession) printWelcome() {
	fmt.Fprintln(s.out, s.env.render(TitleStyle, "Aura RAG chat"))
	fmt.Fprintln(s.out, s.env.render(DimStyle, "Backend: "+s.env.Client.BaseURL()))
	fmt.Fprintln(s.out, s.env.render(DimStyle, "Type a question, or /help for commands."))
	fmt.Fprintln(s.out)
}

func (s *ChatSession) printHelp() {
	fmt.Fprintln(s.out, s.env.render(TitleStyle, "Chat commands"))
	rows := [][2]string{
		{"/ingest <file>", "Upload a document"},
		{"/text <snippet>", "Ingest a text snippet"},
		{"/export [md|json]", "Save the conversation"},
		{"/help", "Show this help"},
		{"/quit", "Leave the chat"},
	}
	for _, r := range rows {
		fmt.Fprintf(s.out, "  %-20s %s\n", r[0], r[1])
	}
}
