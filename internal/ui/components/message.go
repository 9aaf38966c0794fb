// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// CitationsHeader labels the citation list under an answer.
const CitationsHeader = "Sources"

// citationPreviewLines bounds how much of each passage is shown.
const citationPreviewLines = 3

// MessageBubble renders one chat message.
type MessageBubble struct {
	Message  model.Message
	Width    int
	Markdown *Markdown
	theme    *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message: msg,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUser()
	case model.RoleAI:
		return b.renderAI()
	default:
		return b.renderError()
	}
}

func (b *MessageBubble) innerWidth(style lipgloss.Style) int {
	return max(b.Width-style.GetHorizontalFrameSize(), 10)
}

// renderUser right-aligns the query in a compact bubble.
func (b *MessageBubble) renderUser() string {
	style := b.theme.UserBubble
	inner := b.innerWidth(style) - 8
	text := Wrap(b.Message.Content, max(inner, 10))

	bubble := style.Width(MaxLineWidth(text) + style.GetHorizontalPadding()).Render(text)
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())

	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

// renderAI shows the answer, its citations and the timing line.
func (b *MessageBubble) renderAI() string {
	style := b.theme.AIBubble
	inner := b.innerWidth(style)

	var body string
	if b.Markdown != nil {
		body = b.Markdown.Render(b.Message.Content, inner)
	} else {
		body = Wrap(b.Message.Content, inner)
	}

	parts := []string{body}
	if len(b.Message.Citations) > 0 {
		parts = append(parts, b.renderCitations(inner))
	}
	if b.Message.HasTiming() {
		parts = append(parts, b.theme.Timing.Render(b.Message.TimingLabel()))
	}

	bubble := style.Width(b.Width - style.GetHorizontalBorderSize()).Render(strings.Join(parts, "\n"))
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderError shows the failure text in the error palette.
func (b *MessageBubble) renderError() string {
	style := b.theme.ErrorBubble
	text := Wrap(styles.StatusIndicators.Error+" "+b.Message.Content, b.innerWidth(style))
	bubble := style.Width(b.Width - style.GetHorizontalBorderSize()).Render(text)
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderCitations lists passages in response order, numbered from 1.
func (b *MessageBubble) renderCitations(width int) string {
	lines := []string{b.theme.CitationHeader.Render(CitationsHeader)}

	for i, c := range b.Message.Citations {
		index := "[" + strconv.Itoa(i+1) + "]"
		indent := strings.Repeat(" ", len(index)+1)
		textWidth := max(width-len(indent), 10)

		wrapped := strings.Split(Wrap(strings.TrimSpace(c.Text), textWidth), "\n")
		if len(wrapped) > citationPreviewLines {
			wrapped = wrapped[:citationPreviewLines]
			last := citationPreviewLines - 1
			wrapped[last] = Truncate(wrapped[last]+" "+Ellipsis, textWidth)
		}

		for j, line := range wrapped {
			prefix := indent
			if j == 0 {
				prefix = b.theme.CitationIndex.Render(index) + " "
			}
			lines = append(lines, prefix+b.theme.CitationText.Render(line))
		}

		if src := c.Source(); src != "" {
			meta := src
			if c.Score != nil {
				meta += " (score " + strconv.FormatFloat(*c.Score, 'f', 2, 64) + ")"
			}
			lines = append(lines, indent+b.theme.CitationSource.Render(Truncate(meta, textWidth)))
		}
	}

	return strings.Join(lines, "\n")
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders the full history, or the empty state when there is
// nothing to show.
type MessageList struct {
	Messages []model.Message
	Width    int
	Height   int
	Markdown *Markdown
	empty    *EmptyState
	theme    *styles.Theme
}

// NewMessageList creates a message list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Width: 80,
		empty: NewEmptyState(theme),
		theme: theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []model.Message) {
	ml.Messages = messages
}

// SetSize sets the list dimensions.
func (ml *MessageList) SetSize(width, height int) {
	ml.Width = width
	ml.Height = height
	ml.empty.SetSize(width, height)
}

// Empty exposes the empty state so callers can resolve suggestions.
func (ml *MessageList) Empty() *EmptyState {
	return ml.empty
}

// View renders all messages separated by a blank line.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		return ml.empty.View()
	}

	bubbles := make([]string, 0, len(ml.Messages))
	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.Markdown = ml.Markdown
		bubbles = append(bubbles, bubble.View())
	}
	return strings.Join(bubbles, "\n\n")
}
