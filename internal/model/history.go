// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// HISTORY
// =============================================================================

// History is the append-only, ordered chat transcript.
// The zero value is an empty history ready for use.
type History struct {
	messages []Message
}

// Append adds msg to the end of the history.
func (h *History) Append(msg Message) {
	h.messages = append(h.messages, msg)
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}

// Messages returns a copy of the messages in order.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Last returns the newest message, if any.
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// =============================================================================
// UPLOAD STATUS
// =============================================================================

// UploadKind classifies the outcome of an ingestion attempt.
type UploadKind string

const (
	UploadSuccess UploadKind = "success"
	UploadError   UploadKind = "error"
)

// UploadStatus is the outcome of the most recent ingestion attempt.
type UploadStatus struct {
	Kind    UploadKind
	Message string
}

// IsSuccess reports whether the attempt succeeded.
func (s UploadStatus) IsSuccess() bool {
	return s.Kind == UploadSuccess
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// titleWords is the number of leading words kept by DeriveTitle.
const titleWords = 5

// DeriveTitle builds an ingestion title from the first five space-separated
// words of text. The "..." suffix is always appended, even when the text is
// shorter than five words.
func DeriveTitle(text string) string {
	words := strings.Split(text, " ")
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ") + "..."
}
