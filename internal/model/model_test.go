// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short text still gets ellipsis", "a b", "a b..."},
		{"exactly five words", "one two three four five", "one two three four five..."},
		{"long text keeps first five", "one two three four five six seven", "one two three four five..."},
		{"single word", "hello", "hello..."},
		{"consecutive spaces count as words", "a  b c d e f", "a  b c d..."},
		{"newlines are not separators", "line one\nline two three four five", "line one\nline two three four..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.text))
		})
	}
}

func TestHistory_AppendOnly(t *testing.T) {
	var h History
	assert.Equal(t, 0, h.Len())
	_, ok := h.Last()
	assert.False(t, ok)

	h.Append(NewUserMessage("q"))
	h.Append(NewAIMessage("a", nil, nil))
	require.Equal(t, 2, h.Len())

	snapshot := h.Messages()
	snapshot[0].Content = "mutated"
	assert.Equal(t, "q", h.Messages()[0].Content, "Messages returns a copy")

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, RoleAI, last.Role)
}

func TestNewAIMessage_CopiesInputs(t *testing.T) {
	timing := 1.234
	citations := []Citation{{Text: "A"}, {Text: "B"}}

	msg := NewAIMessage("X", citations, &timing)
	citations[0].Text = "changed"
	timing = 9

	require.Len(t, msg.Citations, 2)
	assert.Equal(t, "A", msg.Citations[0].Text)
	assert.Equal(t, "B", msg.Citations[1].Text)
	assert.Equal(t, "Generated in 1.23s", msg.TimingLabel())
	assert.NotEmpty(t, msg.ID)
}

func TestMessage_TimingLabel(t *testing.T) {
	zero := 0.0
	assert.Equal(t, "", NewAIMessage("x", nil, nil).TimingLabel())
	assert.Equal(t, "", NewAIMessage("x", nil, &zero).TimingLabel())
	assert.Equal(t, "0.50s", FormatSeconds(0.5))
}

func TestCitation_Source(t *testing.T) {
	assert.Equal(t, "", Citation{Text: "x"}.Source())
	assert.Equal(t, "report.pdf", Citation{Metadata: map[string]any{"source": "report.pdf", "page": 3}}.Source())
	assert.Equal(t, "Q3 Review", Citation{Metadata: map[string]any{"title": "Q3 Review", "source": "q3.pdf"}}.Source())
	assert.Equal(t, "", Citation{Metadata: map[string]any{"title": nil}}.Source())
	assert.Equal(t, []string{"page", "source"}, Citation{Metadata: map[string]any{"source": "a", "page": 1}}.MetadataKeys())
}

func TestRole_DisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Aura", RoleAI.DisplayName())
	assert.Equal(t, "Error", RoleError.DisplayName())
}
