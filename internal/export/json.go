// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/aura-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON. Metadata is always included.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonTranscript struct {
	Title      string        `json:"title"`
	BackendURL string        `json:"backend_url,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	ExportedAt time.Time     `json:"exported_at"`
	Messages   []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
	Citations []model.Citation `json:"citations,omitempty"`
	Timing    *float64         `json:"timing,omitempty"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	doc := jsonTranscript{
		Title:      t.Title,
		BackendURL: t.BackendURL,
		CreatedAt:  t.CreatedAt,
		ExportedAt: time.Now(),
		Messages:   make([]jsonMessage, 0, len(t.Messages)),
	}
	for _, m := range t.Messages {
		jm := jsonMessage{
			ID:        m.ID,
			Role:      m.Role.String(),
			Content:   m.Content,
			Citations: m.Citations,
			Timing:    m.Timing,
		}
		if e.options.IncludeTimestamps {
			created := m.CreatedAt
			jm.CreatedAt = &created
		}
		doc.Messages = append(doc.Messages, jm)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
