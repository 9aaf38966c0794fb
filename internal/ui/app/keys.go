// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the application.
type KeyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	ChatTab    key.Binding
	SourcesTab key.Binding
	Submit     key.Binding
	Suggest    key.Binding
	ToggleMode key.Binding
	IngestText key.Binding
	Export     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Help       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch tab"),
		),
		ChatTab: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "chat"),
		),
		SourcesTab: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "sources"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3"),
			key.WithHelp("alt+1..3", "use suggestion"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "file/text"),
		),
		IngestText: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "ingest text"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the bindings shown in the collapsed help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextTab, k.Export, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.ChatTab, k.SourcesTab},
		{k.Submit, k.Suggest, k.PageUp, k.PageDown},
		{k.ToggleMode, k.IngestText},
		{k.Export, k.Help, k.Quit},
	}
}

// suggestionIndex maps alt+N to a 1-based suggestion number.
func suggestionIndex(keyName string) int {
	switch keyName {
	case "alt+1":
		return 1
	case "alt+2":
		return 2
	case "alt+3":
		return 3
	default:
		return 0
	}
}
