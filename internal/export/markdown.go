// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/aura-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown format.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(t.Title)))
		if t.BackendURL != "" {
			sb.WriteString(fmt.Sprintf("backend: %s\n", escapeYAML(t.BackendURL)))
		}
		sb.WriteString(fmt.Sprintf("date: %s\n", t.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(t.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: aura-tui\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(t.Title)))

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("- **Started**: %s\n", formatTimestamp(t.CreatedAt)))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(t.Messages)))
		sb.WriteString("\n---\n\n")
	}

	for i, msg := range t.Messages {
		label := msg.Role.DisplayName()
		if e.options.IncludeTimestamps && !msg.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.CreatedAt)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		content := strings.TrimSpace(msg.Content)
		if msg.Role == model.RoleError {
			content = "> **Error:** " + content
		}
		sb.WriteString(content)
		sb.WriteString("\n\n")

		if len(msg.Citations) > 0 {
			sb.WriteString(formatCitations(msg.Citations))
			sb.WriteString("\n")
		}

		if msg.HasTiming() {
			sb.WriteString(fmt.Sprintf("<sub>%s</sub>\n\n", msg.TimingLabel()))
		}

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from Aura on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatCitations renders a numbered source list in response order.
func formatCitations(citations []model.Citation) string {
	var sb strings.Builder
	sb.WriteString("**Sources**\n\n")
	for i, c := range citations {
		text := strings.Join(strings.Fields(c.Text), " ")
		sb.WriteString(fmt.Sprintf("- [%d] %s", i+1, text))
		if src := c.Source(); src != "" {
			sb.WriteString(fmt.Sprintf(" _(%s)_", escapeMarkdown(src)))
		}
		if c.Score != nil {
			sb.WriteString(fmt.Sprintf(" `score %.2f`", *c.Score))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
	)
	return r.Replace(s)
}

// escapeYAML quotes values that would otherwise break the frontmatter.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
