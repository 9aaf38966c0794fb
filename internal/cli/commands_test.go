// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aura-tui/internal/api"
	"github.com/jeranaias/aura-tui/internal/config"
	"github.com/jeranaias/aura-tui/internal/logging"
	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/components"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
	texts   []api.IngestTextRequest
	files   []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}

	r := chi.NewRouter()
	r.Get(api.PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok", Message: "RAG Backend is running"})
	})
	r.Post(api.PathQuery, func(w http.ResponseWriter, req *http.Request) {
		var body api.QueryRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		fb.mu.Lock()
		fb.queries = append(fb.queries, body.Query)
		fb.mu.Unlock()

		if body.Query == "fail" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "index not found"})
			return
		}
		score, timing, cost := 0.87, 1.5, "Depends on provider"
		writeJSON(w, http.StatusOK, api.QueryResponse{
			Answer: "Paris is the capital of France.",
			Citations: []model.Citation{{
				Text:     "Paris is the capital and most populous city of France.",
				Metadata: map[string]any{"title": "geography.pdf"},
				Score:    &score,
			}},
			Timing:       &timing,
			CostEstimate: &cost,
		})
	})
	r.Post(api.PathIngestText, func(w http.ResponseWriter, req *http.Request) {
		var body api.IngestTextRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		fb.mu.Lock()
		fb.texts = append(fb.texts, body)
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, api.IngestResponse{Status: "ok", DocID: "doc-1"})
	})
	r.Post(api.PathIngestFile, func(w http.ResponseWriter, req *http.Request) {
		_, header, err := req.FormFile(api.FileField)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "missing file"})
			return
		}
		fb.mu.Lock()
		fb.files = append(fb.files, header.Filename)
		fb.mu.Unlock()
		if strings.HasPrefix(header.Filename, "bad") {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "unsupported document"})
			return
		}
		writeJSON(w, http.StatusOK, api.IngestResponse{Status: "ok"})
	})

	fb.Server = httptest.NewServer(r)
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) uploadedFiles() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.files...)
}

func (fb *fakeBackend) sentQueries() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.queries...)
}

func (fb *fakeBackend) sentTexts() []api.IngestTextRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]api.IngestTextRequest(nil), fb.texts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestEnv(t *testing.T, baseURL string, args Args) (*Env, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Backend.URL = baseURL
	cfg.UI.ExportDir = t.TempDir()
	cfg.Watch.Debounce = 50 * time.Millisecond
	cfg.Watch.UploadsPerSecond = 100

	out := &bytes.Buffer{}
	logger := logging.Nop()
	return &Env{
		Args:          args,
		Config:        cfg,
		Client:        NewClient(cfg, logger),
		Logger:        logger,
		In:            strings.NewReader(""),
		Out:           out,
		Err:           io.Discard,
		InteractiveIn: true,
		Width:         80,
		Retry:         api.RetryConfig{Attempts: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond},
		Markdown:      components.NewMarkdownWithStyle(components.MarkdownPlain),
	}, out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// =============================================================================
// ASK
// =============================================================================

func TestHandleAsk_PrintsAnswerCitationsAndTiming(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{Query: "  What is the capital of France?  "})

	require.NoError(t, HandleAsk(context.Background(), env))

	text := out.String()
	assert.Contains(t, text, "Paris is the capital of France.")
	assert.Contains(t, text, "Sources")
	assert.Contains(t, text, "[1] Paris is the capital and most populous city of France.")
	assert.Contains(t, text, "geography.pdf, score 0.87")
	assert.Contains(t, text, "Generated in 1.50s")
	assert.Equal(t, []string{"What is the capital of France?"}, fb.sentQueries())
}

func TestHandleAsk_JSON(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{Query: "capital?", JSON: true})

	require.NoError(t, HandleAsk(context.Background(), env))

	var resp struct {
		Success bool              `json:"success"`
		Command string            `json:"command"`
		Data    api.QueryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ask", resp.Command)
	assert.Equal(t, "Paris is the capital of France.", resp.Data.Answer)
	require.NotNil(t, resp.Data.CostEstimate)
	assert.Equal(t, "Depends on provider", *resp.Data.CostEstimate)
}

func TestHandleAsk_ReadsPipedStdin(t *testing.T) {
	fb := newFakeBackend(t)
	env, _ := newTestEnv(t, fb.URL, Args{})
	env.In = strings.NewReader("piped question\n")
	env.InteractiveIn = false

	require.NoError(t, HandleAsk(context.Background(), env))
	assert.Equal(t, []string{"piped question"}, fb.sentQueries())
}

func TestHandleAsk_EmptyQuestion(t *testing.T) {
	fb := newFakeBackend(t)
	env, _ := newTestEnv(t, fb.URL, Args{Query: "   "})

	err := HandleAsk(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Empty(t, fb.sentQueries())
}

func TestHandleAsk_SurfacesBackendDetail(t *testing.T) {
	fb := newFakeBackend(t)
	env, _ := newTestEnv(t, fb.URL, Args{Query: "fail"})

	err := HandleAsk(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, "ask: index not found", err.Error())
	assert.True(t, api.IsHTTPError(err))
	assert.Equal(t, ExitGeneralError, ExitCode(err))
}

// =============================================================================
// INGEST
// =============================================================================

func TestHandleIngest_Files(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "handbook.md", "# Handbook")
	bad := writeFile(t, dir, "bad.xyz", "??")
	missing := filepath.Join(dir, "missing.pdf")

	env, out := newTestEnv(t, fb.URL, Args{Files: []string{good, bad, missing}})
	err := HandleIngest(context.Background(), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")

	text := out.String()
	assert.Contains(t, text, "[OK] Added handbook.md")
	assert.Contains(t, text, "[X] Upload failed bad.xyz: unsupported document")
	assert.Contains(t, text, "[X] Upload failed missing.pdf")
	assert.Equal(t, []string{"handbook.md", "bad.xyz"}, fb.uploadedFiles(), "missing files never reach the backend")
}

func TestHandleIngest_TextDerivesTitle(t *testing.T) {
	fb := newFakeBackend(t)
	text := "The quarterly report shows strong growth in all regions"
	env, out := newTestEnv(t, fb.URL, Args{Text: text})

	require.NoError(t, HandleIngest(context.Background(), env))
	assert.Contains(t, out.String(), session.TextIngestedMsg)

	texts := fb.sentTexts()
	require.Len(t, texts, 1)
	assert.Equal(t, text, texts[0].Text)
	assert.Equal(t, "The quarterly report shows strong...", texts[0].Title)
}

func TestHandleIngest_JSON(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{Text: "note", Title: "My note", JSON: true})

	require.NoError(t, HandleIngest(context.Background(), env))

	var resp struct {
		Success bool           `json:"success"`
		Data    []ingestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "My note", resp.Data[0].Source)
	assert.Equal(t, "doc-1", resp.Data[0].DocID)
}

// =============================================================================
// STATUS
// =============================================================================

func TestHandleStatus(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{})

	require.NoError(t, HandleStatus(context.Background(), env))
	text := out.String()
	assert.Contains(t, text, fb.URL)
	assert.Contains(t, text, "[OK] ok")
	assert.Contains(t, text, "RAG Backend is running")
}

func TestHandleStatus_JSON(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{JSON: true})

	require.NoError(t, HandleStatus(context.Background(), env))

	var resp struct {
		Success bool         `json:"success"`
		Data    StatusReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Healthy)
	assert.Equal(t, config.EnvDevelopment, resp.Data.Environment)
}

func TestHandleStatus_FrontendServedAtRoot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><html><head><title>Aura</title></head></html>"))
	}))
	t.Cleanup(srv.Close)

	env, out := newTestEnv(t, srv.URL, Args{})
	require.NoError(t, HandleStatus(context.Background(), env))
	assert.Contains(t, out.String(), "[OK] ok")
}

func TestHandleStatus_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	env, out := newTestEnv(t, url, Args{})
	err := HandleStatus(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
	assert.Contains(t, out.String(), "[X]")
}

// =============================================================================
// CHAT
// =============================================================================

func TestChatSession_QueryRoundTrip(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{})
	s := NewChatSession(env)

	assert.True(t, s.ProcessLine(context.Background(), "capital of France?"))
	assert.True(t, s.ProcessLine(context.Background(), "   "))

	msgs := s.Controller().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.RoleAI, msgs[1].Role)
	assert.False(t, s.Controller().Typing())
	assert.Contains(t, out.String(), "Paris is the capital of France.")
}

func TestChatSession_QueryFailureShowsDetail(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{})
	s := NewChatSession(env)

	s.ProcessLine(context.Background(), "fail")

	msgs := s.Controller().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleError, msgs[1].Role)
	assert.Contains(t, out.String(), "[X] index not found")
}

func TestChatSession_SlashCommands(t *testing.T) {
	fb := newFakeBackend(t)
	env, out := newTestEnv(t, fb.URL, Args{})
	s := NewChatSession(env)
	ctx := context.Background()

	s.ProcessLine(ctx, "/export")
	assert.Contains(t, out.String(), "Nothing to export yet")

	path := writeFile(t, t.TempDir(), "policy.txt", "policy")
	s.ProcessLine(ctx, "/ingest "+path)
	assert.Contains(t, out.String(), "[OK] Added policy.txt")

	s.ProcessLine(ctx, "/text remember the launch date is May 1")
	texts := fb.sentTexts()
	require.Len(t, texts, 1)
	assert.Equal(t, "remember the launch date is May 1", texts[0].Text)

	s.ProcessLine(ctx, "/text")
	assert.Contains(t, out.String(), "Usage: /text <snippet>")

	s.ProcessLine(ctx, "/bogus")
	assert.Contains(t, out.String(), "Unknown command /bogus")

	s.ProcessLine(ctx, "hello")
	s.ProcessLine(ctx, "/export json")
	entries, err := os.ReadDir(env.Config.UI.ExportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

	assert.False(t, s.ProcessLine(ctx, "/quit"))
	assert.False(t, s.ProcessLine(ctx, "exit"))
}

func TestCompleteSlashCommand(t *testing.T) {
	assert.Equal(t, []string{"/text "}, completeSlashCommand("/te"))
	assert.Nil(t, completeSlashCommand("hello"))
}

// =============================================================================
// WATCH
// =============================================================================

func TestHandleWatch_UploadsUntilCancelled(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()
	env, out := newTestEnv(t, fb.URL, Args{Dir: dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- HandleWatch(ctx, env) }()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "inbox.md", "# new")
	writeFile(t, dir, "ignored.png", "png")

	require.Eventually(t, func() bool {
		return len(fb.uploadedFiles()) == 1
	}, 5*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Equal(t, []string{"inbox.md"}, fb.uploadedFiles())
	assert.Contains(t, out.String(), "Stopped: 1 uploaded, 0 failed")
}

func TestHandleWatch_MissingDirectory(t *testing.T) {
	env, _ := newTestEnv(t, "http://127.0.0.1:1", Args{Dir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, HandleWatch(context.Background(), env))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestHandleConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	env, out := newTestEnv(t, "http://localhost:8000", Args{Subcommand: "path"})

	require.NoError(t, HandleConfig(env))
	want := filepath.Join(home, ".aura", "config.toml")
	assert.Equal(t, want, strings.TrimSpace(out.String()))

	env.Args.Subcommand = "init"
	require.NoError(t, HandleConfig(env))
	assert.FileExists(t, want)

	err := HandleConfig(env)
	require.ErrorIs(t, err, ErrConfigExists)

	env.Args.Force = true
	require.NoError(t, HandleConfig(env))

	env.Args.Subcommand = "frob"
	assert.Equal(t, ExitUsageError, ExitCode(HandleConfig(env)))
}

func TestHandleConfig_ShowRedactsToken(t *testing.T) {
	env, out := newTestEnv(t, "http://localhost:8000", Args{Subcommand: "show"})
	env.Config.Backend.Token = "s3cret"

	require.NoError(t, HandleConfig(env))
	assert.NotContains(t, out.String(), "s3cret")
	assert.Contains(t, out.String(), "[REDACTED]")
}

// =============================================================================
// SETUP
// =============================================================================

func TestApplyArgs(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, ApplyArgs(cfg, Args{URL: "http://rag.internal:9000/", Verbose: true}))
	assert.Equal(t, "http://rag.internal:9000", cfg.BaseURL())
	assert.Equal(t, "debug", cfg.Logging.Level)

	cfg = config.Default()
	err := ApplyArgs(cfg, Args{Env: "production"})
	require.Error(t, err, "production needs an explicit backend URL")
	assert.Equal(t, ExitConfigError, ExitCode(err))
}
