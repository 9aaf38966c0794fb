// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aura TUI.

# Color System (colors.go)

All colors are lipgloss.AdaptiveColor values so the same palette works on
light and dark terminals:

  - Indigo - Brand color, active tab, primary buttons
  - Cyan - Citations and key hints
  - Emerald / Rose / Amber - Success, error and in-flight states

Message bubbles use role tokens (UserBubble*, AIBubble*, ErrorBubble*).

# Status Indicators

Every status line carries an ASCII indicator so that meaning never depends on
color alone:

	styles.RenderSuccess("Added report.pdf") // [OK] Added report.pdf
	styles.RenderError("Upload failed")      // [X] Upload failed

# Theme (theme.go)

Theme bundles the lipgloss styles used by the components and the app model.
NewThemeForMode honours the ui.theme config value; DisableColor backs the
--no-color flag.

	theme := styles.NewThemeForMode(cfg.UI.Theme)
	theme.SetSize(width, height)
	bubble := theme.AIBubble.Width(theme.ContentWidth()).Render(answer)
*/
package styles
