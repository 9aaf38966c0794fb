// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/aura-tui/internal/config"
)

// ErrConfigExists is returned by "config init" when a file is already present.
var ErrConfigExists = errors.New("config file already exists (use --force to overwrite)")

// HandleConfig shows, locates or initializes the config file.
//
//	aura config            same as "config show"
//	aura config path
//	aura config init [--force]
func HandleConfig(env *Env) error {
	switch env.Args.Subcommand {
	case "", "show":
		fmt.Fprintln(env.Out, env.Config.String())
		return nil

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Out, path)
		return nil

	case "init":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !env.Args.Force {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
		if err := config.SaveTOML(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(env.Out, env.status(true, "Wrote "+path))
		return nil

	default:
		return NewUsageError("config", fmt.Sprintf("unknown subcommand %q", env.Args.Subcommand))
	}
}
