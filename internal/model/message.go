// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAI    Role = "ai"
	RoleError Role = "error"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAI:
		return "Aura"
	case RoleError:
		return "Error"
	default:
		return string(r)
	}
}

// =============================================================================
// CITATION TYPE
// =============================================================================

// Citation is an excerpt the backend offers as evidence for an answer.
// It has no identity beyond its position in the enclosing message.
type Citation struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    *float64       `json:"score,omitempty"`
}

// sourceKeys are the metadata keys checked, in order, for a display label.
var sourceKeys = []string{"title", "source", "filename", "file_name", "doc_id"}

// Source returns a short label for the document the excerpt came from,
// or "" when the metadata carries none.
func (c Citation) Source() string {
	for _, key := range sourceKeys {
		v, ok := c.Metadata[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return ""
}

// MetadataKeys returns the metadata keys in sorted order.
func (c Citation) MetadataKeys() []string {
	keys := make([]string, 0, len(c.Metadata))
	for k := range c.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat entry. Messages are never modified after being
// appended to a History.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Only set on RoleAI messages.
	Citations []Citation `json:"citations,omitempty"`
	// Timing is the backend-reported generation time in seconds.
	Timing *float64 `json:"timing,omitempty"`
}

func newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewUserMessage creates a message for a submitted query.
func NewUserMessage(content string) Message {
	return newMessage(RoleUser, content)
}

// NewAIMessage creates a message for a backend answer.
func NewAIMessage(answer string, citations []Citation, timing *float64) Message {
	msg := newMessage(RoleAI, answer)
	if len(citations) > 0 {
		msg.Citations = append([]Citation(nil), citations...)
	}
	if timing != nil {
		t := *timing
		msg.Timing = &t
	}
	return msg
}

// NewErrorMessage creates a message describing a failed query.
func NewErrorMessage(content string) Message {
	return newMessage(RoleError, content)
}

// HasTiming reports whether the timing annotation should be shown.
// A zero timing is treated like an absent one.
func (m Message) HasTiming() bool {
	return m.Timing != nil && *m.Timing != 0
}

// TimingLabel formats the timing as "Generated in 1.23s".
func (m Message) TimingLabel() string {
	if !m.HasTiming() {
		return ""
	}
	return "Generated in " + FormatSeconds(*m.Timing)
}

// FormatSeconds renders seconds with two decimals, e.g. "1.23s".
func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}
