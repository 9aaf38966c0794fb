// aura - a terminal chat and ingestion client for a RAG backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/cli"
	"github.com/jeranaias/aura-tui/internal/config"
	"github.com/jeranaias/aura-tui/internal/ui/app"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(cli.ExitCode(err))
	}
}

func run(argv []string) error {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		return err
	}

	// Commands that need neither config nor backend.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return nil
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return &cli.ConfigError{Err: err}
	}
	if err := cli.ApplyArgs(cfg, args); err != nil {
		return err
	}
	config.SetGlobal(cfg)

	logger, err := cli.NewLogger(cfg, cmd, args)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("starting",
		zap.String("command", cmd.String()),
		zap.String("version", Version),
		zap.String("backend", cfg.BaseURL()),
		zap.String("environment", cfg.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTUI {
		return runTUI(cfg, args, logger)
	}

	env := cli.NewEnv(cfg, args, logger)
	switch cmd {
	case cli.CmdAsk:
		return cli.HandleAsk(ctx, env)
	case cli.CmdChat:
		return cli.HandleChat(ctx, env)
	case cli.CmdIngest:
		return cli.HandleIngest(ctx, env)
	case cli.CmdWatch:
		return cli.HandleWatch(ctx, env)
	case cli.CmdStatus:
		return cli.HandleStatus(ctx, env)
	case cli.CmdConfig:
		return cli.HandleConfig(env)
	default:
		return errors.New("unhandled command " + cmd.String())
	}
}

// runTUI starts the full-screen interface.
func runTUI(cfg *config.Config, args cli.Args, logger *zap.Logger) error {
	if args.NoColor {
		cli.ForceColorsEnabled(false)
		styles.DisableColor()
	}
	theme := styles.NewThemeForMode(cfg.UI.Theme)

	m := app.New(app.Options{
		Backend:        cli.NewClient(cfg, logger),
		Logger:         logger,
		Theme:          theme,
		RequestTimeout: cfg.Backend.Timeout,
		ExportDir:      cfg.UI.ExportDir,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		logger.Error("tui exited with error", zap.Error(err))
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
