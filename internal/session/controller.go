// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the client-local interaction state and the
// transitions that drive it.
//
// A Controller is a plain state store with no I/O. The UI shell calls its
// methods from the event loop only, so it needs no locking.
package session

import (
	"strings"

	"github.com/jeranaias/aura-tui/internal/api"
	"github.com/jeranaias/aura-tui/internal/model"
)

// =============================================================================
// STATE TYPES
// =============================================================================

// Tab is one of the two mutually exclusive views.
type Tab int

const (
	TabQuery  Tab = iota // Chat
	TabIngest            // Sources
)

// String returns the tab label shown in the header.
func (t Tab) String() string {
	if t == TabIngest {
		return "Sources"
	}
	return "Chat"
}

// IngestMode selects how the Sources tab ingests content.
type IngestMode int

const (
	IngestFile IngestMode = iota
	IngestText
)

// String returns the mode name.
func (m IngestMode) String() string {
	if m == IngestText {
		return "text"
	}
	return "file"
}

// Fixed user-facing strings.
const (
	QueryFallback   = "Failed to get an answer. Please check if the backend is running."
	UploadFailed    = "Upload failed"
	IngestFailed    = "Ingest failed"
	TextIngestedMsg = "Added text snippet"
)

// FileIngestedMessage is the success status for an uploaded file.
func FileIngestedMessage(name string) string {
	return "Added " + name
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns all interaction state.
// The zero value is not usable; call New.
type Controller struct {
	tab Tab

	// Chat flow
	draftQuery string
	history    model.History
	typing     bool

	// Ingestion flow
	ingestMode   IngestMode
	draftText    string
	uploading    bool
	uploadStatus *model.UploadStatus
}

// New returns a controller on the Chat tab in file ingest mode.
func New() *Controller {
	return &Controller{
		tab:        TabQuery,
		ingestMode: IngestFile,
	}
}

// Tab returns the active tab.
func (c *Controller) Tab() Tab { return c.tab }

// DraftQuery returns the query being composed.
func (c *Controller) DraftQuery() string { return c.draftQuery }

// Messages returns a copy of the chat history.
func (c *Controller) Messages() []model.Message { return c.history.Messages() }

// HistoryLen returns the number of chat messages.
func (c *Controller) HistoryLen() int { return c.history.Len() }

// Typing reports whether a query round trip is in flight.
func (c *Controller) Typing() bool { return c.typing }

// IngestMode returns the active ingestion mode.
func (c *Controller) IngestMode() IngestMode { return c.ingestMode }

// DraftText returns the text being prepared for ingestion.
func (c *Controller) DraftText() string { return c.draftText }

// Uploading reports whether an ingestion round trip is in flight.
func (c *Controller) Uploading() bool { return c.uploading }

// UploadStatus returns the outcome of the last ingestion, if any.
func (c *Controller) UploadStatus() (model.UploadStatus, bool) {
	if c.uploadStatus == nil {
		return model.UploadStatus{}, false
	}
	return *c.uploadStatus, true
}

// =============================================================================
// TAB TRANSITIONS
// =============================================================================

// SwitchTab changes the visible view. In-flight requests are unaffected.
func (c *Controller) SwitchTab(t Tab) {
	c.tab = t
}

// ToggleTab flips between the two views.
func (c *Controller) ToggleTab() {
	if c.tab == TabQuery {
		c.tab = TabIngest
	} else {
		c.tab = TabQuery
	}
}

// SetIngestMode switches between file and text ingestion.
func (c *Controller) SetIngestMode(m IngestMode) {
	c.ingestMode = m
}

// =============================================================================
// CHAT FLOW
// =============================================================================

// SetDraftQuery records the query being composed.
func (c *Controller) SetDraftQuery(text string) {
	c.draftQuery = text
}

// CanSubmitQuery reports whether the submit control is enabled for text.
func (c *Controller) CanSubmitQuery(text string) bool {
	return !c.typing && strings.TrimSpace(text) != ""
}

// SubmitQuery starts a query round trip. On success it appends the user
// message, clears the draft, sets the typing flag and returns the trimmed
// text to send. Whitespace-only text or a busy slot is rejected with no
// state change.
func (c *Controller) SubmitQuery(text string) (string, bool) {
	if !c.CanSubmitQuery(text) {
		return "", false
	}
	trimmed := strings.TrimSpace(text)
	c.history.Append(model.NewUserMessage(trimmed))
	c.draftQuery = ""
	c.typing = true
	return trimmed, true
}

// ResolveQuery applies the outcome of a query round trip. Exactly one ai or
// error message is appended and the typing flag is always cleared.
func (c *Controller) ResolveQuery(resp *api.QueryResponse, err error) {
	defer func() { c.typing = false }()

	if err != nil || resp == nil {
		content := QueryFallback
		if detail, ok := api.ErrorDetail(err); ok {
			content = detail
		}
		c.history.Append(model.NewErrorMessage(content))
		return
	}

	c.history.Append(model.NewAIMessage(resp.Answer, resp.Citations, resp.Timing))
}

// =============================================================================
// INGESTION FLOW
// =============================================================================

// SetDraftText records the text being prepared for ingestion.
func (c *Controller) SetDraftText(text string) {
	c.draftText = text
}

// CanIngestText reports whether the text ingest control is enabled.
func (c *Controller) CanIngestText() bool {
	return !c.uploading && strings.TrimSpace(c.draftText) != ""
}

// beginIngest clears the previous status and claims the ingestion slot.
func (c *Controller) beginIngest() {
	c.uploadStatus = nil
	c.uploading = true
}

func (c *Controller) finishIngest(kind model.UploadKind, msg string) {
	c.uploadStatus = &model.UploadStatus{Kind: kind, Message: msg}
	c.uploading = false
}

// BeginFileIngest claims the ingestion slot for an upload of name.
// Selecting the same file again starts a new upload. Returns false while
// another ingestion is in flight.
func (c *Controller) BeginFileIngest(name string) bool {
	if c.uploading || name == "" {
		return false
	}
	c.beginIngest()
	return true
}

// ResolveFileIngest applies the outcome of a file upload.
func (c *Controller) ResolveFileIngest(name string, err error) {
	if err != nil {
		c.finishIngest(model.UploadError, UploadFailed)
		return
	}
	c.finishIngest(model.UploadSuccess, FileIngestedMessage(name))
}

// BeginTextIngest claims the ingestion slot for the draft text and returns
// the text with its derived title. The draft is sent untrimmed.
func (c *Controller) BeginTextIngest() (text, title string, ok bool) {
	if !c.CanIngestText() {
		return "", "", false
	}
	c.beginIngest()
	return c.draftText, model.DeriveTitle(c.draftText), true
}

// ResolveTextIngest applies the outcome of a text ingestion. The draft is
// cleared on success and kept on failure so the user may retry.
func (c *Controller) ResolveTextIngest(err error) {
	if err != nil {
		c.finishIngest(model.UploadError, IngestFailed)
		return
	}
	c.draftText = ""
	c.finishIngest(model.UploadSuccess, TextIngestedMsg)
}
