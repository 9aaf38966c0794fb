// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of aura.
//
// # Commands
//
//   - ask: one question, answer printed as Markdown or JSON
//   - chat: line-oriented REPL over the same chat flow as the TUI
//   - ingest: upload files or a text snippet
//   - watch: upload documents as they appear in a directory
//   - status: backend health check with retries
//   - config: show, locate or initialize the config file
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    return err
//	}
//	switch cmd {
//	case cli.CmdAsk:
//	    return cli.HandleAsk(ctx, env, args)
//	// ...
//	}
//
// Handlers write to the Env's Out and Err writers and return errors to the
// caller instead of exiting.
package cli
