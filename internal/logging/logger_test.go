// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aura.log")

	logger, err := New(Options{File: path, Level: "info", MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("query sent", zap.String("request_id", "abc"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entries are below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "query sent", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNew_NoSinksIsNop(t *testing.T) {
	logger, err := New(Options{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	FromContext(ctx).Info("from extract")
	ctxzap.Info(ctx, "from ctxzap")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "from extract", logs.All()[0].Message)
	assert.Equal(t, "from ctxzap", logs.All()[1].Message)

	assert.NotNil(t, FromContext(context.Background()), "missing logger falls back to a no-op")
	assert.NotPanics(t, func() {
		ctxzap.Info(WithLogger(context.Background(), nil), "discarded")
	})
}
