// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(Ellipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Wrap breaks text into lines of at most width display cells, preferring
// word boundaries. Existing newlines are kept. Words wider than width are
// split.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		lines   []string
		current strings.Builder
		curW    int
	)
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		curW = 0
	}

	for _, word := range strings.Fields(line) {
		ww := runewidth.StringWidth(word)

		// Hard-split words that can never fit.
		for ww > width {
			if curW > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		if ww == 0 {
			continue
		}

		switch {
		case curW == 0:
			current.WriteString(word)
			curW = ww
		case curW+1+ww <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			curW += 1 + ww
		default:
			flush()
			current.WriteString(word)
			curW = ww
		}
	}
	if curW > 0 {
		flush()
	}
	return lines
}

// MaxLineWidth returns the display width of the widest line.
func MaxLineWidth(text string) int {
	w := 0
	for _, line := range strings.Split(text, "\n") {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}
