// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/api"
	"github.com/jeranaias/aura-tui/internal/config"
	"github.com/jeranaias/aura-tui/internal/logging"
	"github.com/jeranaias/aura-tui/internal/ui/components"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// Env carries everything a command handler needs.
type Env struct {
	Args   Args
	Config *config.Config
	Client *api.Client
	Logger *zap.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// InteractiveIn is true when In is a terminal.
	InteractiveIn bool
	// Color enables styled and Markdown-rendered output.
	Color bool
	Width int

	// Retry is the health check policy used by status.
	Retry    api.RetryConfig
	Markdown *components.Markdown
}

// ApplyArgs folds the global flags into cfg and re-validates it.
func ApplyArgs(cfg *config.Config, args Args) error {
	if args.URL != "" {
		cfg.Backend.URL = args.URL
	}
	if args.Env != "" {
		cfg.Environment = args.Env
	}
	if args.Verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

// NewLogger builds the logger for cmd. The TUI logs to the file only;
// other commands tee to stderr with --verbose.
func NewLogger(cfg *config.Config, cmd Command, args Args) (*zap.Logger, error) {
	file := cfg.Logging.File
	if file == "" {
		if path, err := config.DefaultLogPath(); err == nil {
			file = path
		}
	}
	return logging.New(logging.Options{
		File:       file,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Console:    args.Verbose && cmd != CmdTUI,
	})
}

// NewClient builds the backend client from cfg.
func NewClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:   cfg.BaseURL(),
		Timeout:   cfg.Backend.Timeout,
		Token:     cfg.Backend.Token,
		UserAgent: "aura-tui/" + Version,
		Logger:    logger,
	})
}

// NewEnv wires an Env to the process's standard streams.
func NewEnv(cfg *config.Config, args Args, logger *zap.Logger) *Env {
	if args.NoColor {
		ForceColorsEnabled(false)
	}
	ApplyColorProfile()

	color := ColorsEnabled()
	return &Env{
		Args:          args,
		Config:        cfg,
		Client:        NewClient(cfg, logger),
		Logger:        logger,
		In:            os.Stdin,
		Out:           os.Stdout,
		Err:           os.Stderr,
		InteractiveIn: IsTTY(),
		Color:         color,
		Width:         GetTerminalWidth(),
		Retry:         api.DefaultRetryConfig(),
		Markdown:      components.NewMarkdownWithStyle(markdownStyle(color)),
	}
}

func markdownStyle(color bool) string {
	switch {
	case !color:
		return components.MarkdownPlain
	case lipgloss.HasDarkBackground():
		return components.MarkdownDark
	default:
		return components.MarkdownLight
	}
}

// render applies style only when colors are enabled.
func (e *Env) render(style lipgloss.Style, text string) string {
	if !e.Color {
		return text
	}
	return style.Render(text)
}

// label renders a fixed-width field label.
func (e *Env) label(text string) string {
	if !e.Color {
		return fmt.Sprintf("%-12s", text)
	}
	return RenderLabel(text)
}

// status returns a "[OK] msg" line that keeps its meaning without color.
func (e *Env) status(ok bool, msg string) string {
	if e.Color {
		return styles.RenderStatus(ok, msg)
	}
	if ok {
		return styles.StatusIndicators.Success + " " + msg
	}
	return styles.StatusIndicators.Error + " " + msg
}

func (e *Env) outputWidth() int {
	if e.Width <= 0 {
		return DefaultTerminalWidth
	}
	return min(e.Width, 100)
}

// readStdin returns piped input when stdin is not a terminal.
func (e *Env) readStdin() (string, error) {
	if e.In == nil || e.InteractiveIn {
		return "", nil
	}
	data, err := io.ReadAll(e.In)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
