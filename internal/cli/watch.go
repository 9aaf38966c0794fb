// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/watch"
)

// HandleWatch uploads documents as they settle in a directory until ctx
// is cancelled.
//
//	aura watch ~/Documents/inbox --recursive
func HandleWatch(ctx context.Context, env *Env) error {
	cfg := env.Config.Watch
	w, err := watch.New(watch.Config{
		Dir:              env.Args.Dir,
		Debounce:         cfg.Debounce,
		Extensions:       cfg.Extensions,
		UploadsPerSecond: cfg.UploadsPerSecond,
		Recursive:        env.Args.Recursive,
	}, env.Client, env.Logger)
	if err != nil {
		return err
	}

	if !env.Args.Quiet {
		fmt.Fprintf(env.Out, "%s %s\n",
			env.render(TitleStyle, "Watching"),
			env.Args.Dir,
		)
		fmt.Fprintln(env.Out, env.render(DimStyle,
			fmt.Sprintf("Uploading %s files to %s (Ctrl+C to stop)",
				strings.Join(cfg.Extensions, ", "), env.Client.BaseURL())))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()

	uploaded, failed := 0, 0
	for res := range w.Results() {
		name := filepath.Base(res.Path)
		if res.Err != nil {
			failed++
			fmt.Fprintln(env.Out, env.status(false,
				fmt.Sprintf("%s %s: %s", session.UploadFailed, name, describeError(res.Err))))
			continue
		}
		uploaded++
		if !env.Args.Quiet {
			fmt.Fprintln(env.Out, env.status(true, session.FileIngestedMessage(name)))
		}
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("watch %s: %w", env.Args.Dir, err)
	}
	if !env.Args.Quiet {
		fmt.Fprintln(env.Out, env.render(DimStyle,
			fmt.Sprintf("Stopped: %d uploaded, %d failed", uploaded, failed)))
	}
	return nil
}
