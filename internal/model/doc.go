// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shown in the chat and sources views.
//
// # Key Types
//
//   - Message: One chat entry with role, content, optional citations and timing
//   - Citation: A backend-supplied excerpt supporting an answer
//   - History: Append-only ordered sequence of messages
//   - UploadStatus: Outcome of the most recent ingestion attempt
//
// # Usage
//
//	var h model.History
//	h.Append(model.NewUserMessage("What are the key risks?"))
//	for _, msg := range h.Messages() {
//	    fmt.Println(msg.Role.DisplayName(), msg.Content)
//	}
package model
