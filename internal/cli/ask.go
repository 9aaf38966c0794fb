// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/ui/components"
)

// HandleAsk sends one question to the backend and prints the answer.
// With no question argument, piped stdin is used.
//
//	aura ask "What changed in Q3?"
//	echo "summarize the handbook" | aura ask --json
func HandleAsk(ctx context.Context, env *Env) error {
	query := strings.TrimSpace(env.Args.Query)
	if query == "" {
		piped, err := env.readStdin()
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		query = piped
	}
	if query == "" {
		return NewUsageError("ask", "expected a question")
	}

	if env.Args.JSON {
		return OutputJSON(env.Out, "ask", func() (any, error) {
			resp, err := env.Client.Query(ctx, query)
			if err != nil {
				return nil, &BackendError{Op: "ask", Err: err}
			}
			return resp, nil
		})
	}

	resp, err := env.Client.Query(ctx, query)
	if err != nil {
		env.Logger.Warn("ask failed", zap.Error(err))
		return &BackendError{Op: "ask", Err: err}
	}

	printAnswer(env.Out, env, model.NewAIMessage(resp.Answer, resp.Citations, resp.Timing))
	return nil
}

// printAnswer writes an answer with its citations and timing.
func printAnswer(w io.Writer, env *Env, msg model.Message) {
	width := env.outputWidth()

	fmt.Fprintln(w, env.Markdown.Render(msg.Content, width))

	if len(msg.Citations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, env.render(TitleStyle, components.CitationsHeader))
		for i, c := range msg.Citations {
			fmt.Fprint(w, formatCitation(env, i+1, c, width))
		}
	}

	if msg.HasTiming() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, env.render(DimStyle, msg.TimingLabel()))
	}
}

// formatCitation renders "  [n] excerpt" and, when known, an indented
// source line with the relevance score.
func formatCitation(env *Env, n int, c model.Citation, width int) string {
	var b strings.Builder

	index := fmt.Sprintf("[%d]", n)
	excerpt := strings.Join(strings.Fields(c.Text), " ")
	excerpt = components.Truncate(excerpt, width-len(index)-3)
	fmt.Fprintf(&b, "  %s %s\n", env.render(CitationStyle, index), excerpt)

	var meta []string
	if src := c.Source(); src != "" {
		meta = append(meta, src)
	}
	if c.Score != nil {
		meta = append(meta, fmt.Sprintf("score %.2f", *c.Score))
	}
	if len(meta) > 0 {
		pad := strings.Repeat(" ", len(index)+3)
		fmt.Fprintf(&b, "%s%s\n", pad, env.render(DimStyle, strings.Join(meta, ", ")))
	}
	return b.String()
}
