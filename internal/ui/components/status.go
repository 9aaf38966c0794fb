// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

// UploadStatus renders the outcome of the last ingestion. It returns an
// empty string when there is no status to show.
func UploadStatus(theme *styles.Theme, status model.UploadStatus, ok bool) string {
	if !ok {
		return ""
	}
	if status.IsSuccess() {
		return theme.SuccessStyle.Render(styles.StatusIndicators.Success + " " + status.Message)
	}
	return theme.ErrorStyle.Render(styles.StatusIndicators.Error + " " + status.Message)
}
