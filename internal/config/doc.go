// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aura.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: RAG backend origin, timeout and token
//   - LoggingConfig: Rotating log file settings
//   - WatchConfig: Directory auto-ingest settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (AURA_*), including those from ./.env
//   - ~/.aura/config.toml
//   - ~/.aura/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClientWithConfig(api.ClientConfig{BaseURL: cfg.BaseURL()})
package config
