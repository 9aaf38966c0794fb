// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/jeranaias/aura-tui/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query"`
}

// IngestTextRequest is the body of POST /ingest.
type IngestTextRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// QueryResponse is the body returned by POST /query.
type QueryResponse struct {
	Answer       string           `json:"answer"`
	Citations    []model.Citation `json:"citations,omitempty"`
	Timing       *float64         `json:"timing,omitempty"`
	CostEstimate *string          `json:"cost_estimate,omitempty"`
}

// IngestResponse is the body returned by both ingestion endpoints.
// The client does not inspect it beyond success.
type IngestResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	DocID   string `json:"doc_id,omitempty"`
}

// StatusOK is the health status of a ready backend.
const StatusOK = "ok"

// HealthResponse is the body returned by GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the backend declared itself healthy.
func (h *HealthResponse) OK() bool {
	return h != nil && h.Status == StatusOK
}
