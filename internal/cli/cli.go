// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
)

// Version information, set at build time with -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdIngest
	CmdWatch
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:     "tui",
	CmdAsk:     "ask",
	CmdChat:    "chat",
	CmdIngest:  "ingest",
	CmdWatch:   "watch",
	CmdStatus:  "status",
	CmdConfig:  "config",
	CmdVersion: "version",
	CmdHelp:    "help",
}

// String returns the command name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	URL     string
	Env     string
	Verbose bool
	Quiet   bool
	NoColor bool
	JSON    bool

	// Command-specific
	Query      string
	Files      []string
	Text       string
	Title      string
	Dir        string
	Recursive  bool
	Subcommand string
	Force      bool

	// Raw holds the arguments after the command name.
	Raw []string
}

const usageText = `aura - terminal client for a RAG backend

Usage:
  aura                          Start the TUI (default)
  aura tui                      Start the TUI
  aura ask "question"           Ask a single question
  aura chat                     Line-oriented chat
  aura ingest <file>...         Upload documents
  aura ingest --text "..." [--title T]
                                Ingest a text snippet
  aura watch <dir> [--recursive]
                                Upload documents as they appear in <dir>
  aura status                   Check backend health
  aura config [show|path|init]  Configuration
  aura version                  Version information
  aura help                     This help

Global Flags:
  --url URL         Backend origin (overrides backend.url)
  --env NAME        development or production
  --json            Machine-readable output (ask, ingest, status)
  --no-color        Disable styled output
  -q, --quiet       Minimal output
  -v, --verbose     Debug logging to stderr

Chat Commands:
  /help             Show chat commands
  /ingest <file>    Upload a document
  /text <snippet>   Ingest a text snippet
  /export [json]    Save the conversation
  /quit             Leave the chat

Environment:
  AURA_ENV, AURA_BACKEND_URL, AURA_BACKEND_TIMEOUT, AURA_BACKEND_TOKEN,
  AURA_LOG_LEVEL, AURA_UI_THEME and friends override the config file.
  A .env file in the working directory is read first.

Examples:
  aura ask "What are the key risks in the Q3 report?"
  aura ingest reports/q3.pdf notes.md
  aura watch ~/Documents/inbox --recursive
  aura --url http://rag.internal:8000 status --json

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "aura version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name).
// With no command the TUI is selected.
func Parse(argv []string) (Command, Args, error) {
	remaining, args, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, args, err
	}
	if len(remaining) == 0 {
		return CmdTUI, args, nil
	}

	name := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch name {
	case "tui":
		return CmdTUI, args, nil

	case "ask", "a":
		p := NewArgParser(remaining, "json")
		args.JSON = args.JSON || p.BoolFlag("json")
		args.Query = p.Joined()
		return CmdAsk, args, nil

	case "chat":
		return CmdChat, args, nil

	case "ingest", "add":
		p := NewArgParser(remaining, "json")
		args.JSON = args.JSON || p.BoolFlag("json")
		args.Text = p.Flag("text", "t")
		args.Title = p.Flag("title")
		args.Files = p.Positionals()
		if args.Text == "" && len(args.Files) == 0 {
			return CmdIngest, args, NewUsageError("ingest", "expected files or --text")
		}
		if args.Text != "" && len(args.Files) > 0 {
			return CmdIngest, args, NewUsageError("ingest", "use either files or --text, not both")
		}
		return CmdIngest, args, nil

	case "watch":
		p := NewArgParser(remaining, "recursive", "r")
		args.Recursive = p.BoolFlag("recursive", "r")
		args.Dir = p.Positional(0)
		if args.Dir == "" {
			return CmdWatch, args, NewUsageError("watch", "expected a directory")
		}
		return CmdWatch, args, nil

	case "status", "s":
		p := NewArgParser(remaining, "json")
		args.JSON = args.JSON || p.BoolFlag("json")
		return CmdStatus, args, nil

	case "config":
		p := NewArgParser(remaining, "force", "f")
		args.Subcommand = p.Positional(0)
		args.Force = p.BoolFlag("force", "f")
		return CmdConfig, args, nil

	case "version", "--version":
		return CmdVersion, args, nil

	case "help", "-h", "--help":
		return CmdHelp, args, nil

	default:
		return CmdHelp, args, NewUsageError("", fmt.Sprintf("unknown command %q (see 'aura help')", name))
	}
}

// parseGlobalFlags extracts global flags from anywhere in argv. The rest is
// returned in order.
func parseGlobalFlags(argv []string) ([]string, Args, error) {
	var (
		args      Args
		remaining []string
	)

	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		switch {
		case arg == "--":
			remaining = append(remaining, argv[i:]...)
			return remaining, args, nil
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "--no-color":
			args.NoColor = true
		case arg == "--json":
			args.JSON = true
		case arg == "--url" || arg == "--env":
			if i+1 >= len(argv) {
				return nil, args, NewUsageError("", arg+" requires a value")
			}
			i++
			setGlobalValue(&args, arg, argv[i])
		case strings.HasPrefix(arg, "--url=") || strings.HasPrefix(arg, "--env="):
			name, value, _ := strings.Cut(arg, "=")
			setGlobalValue(&args, name, value)
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args, nil
}

func setGlobalValue(args *Args, name, value string) {
	switch name {
	case "--url":
		args.URL = value
	case "--env":
		args.Env = value
	}
}
