// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aura-tui/internal/api"
)

type fakeUploader struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (f *fakeUploader) IngestFilePath(_ context.Context, path string) (*api.IngestResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	return &api.IngestResponse{}, nil
}

func (f *fakeUploader) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func testConfig(dir string) Config {
	return Config{
		Dir:              dir,
		Debounce:         50 * time.Millisecond,
		Tick:             10 * time.Millisecond,
		UploadsPerSecond: 100,
	}
}

// startWatcher runs w until the test ends.
func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give fsnotify a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
}

func nextResult(t *testing.T, w *Watcher) Result {
	t.Helper()
	select {
	case res, ok := <-w.Results():
		require.True(t, ok, "results closed early")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for upload")
		return Result{}
	}
}

func TestNew_RejectsMissingAndFileTargets(t *testing.T) {
	dir := t.TempDir()

	_, err := New(testConfig(filepath.Join(dir, "missing")), &fakeUploader{}, nil)
	require.Error(t, err)

	file := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(testConfig(file), &fakeUploader{}, nil)
	require.ErrorIs(t, err, ErrNotDirectory)
}

func TestMatches(t *testing.T) {
	w, err := New(testConfig(t.TempDir()), &fakeUploader{}, nil)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"notes.md", true},
		{"plain.txt", true},
		{"image.png", false},
		{".hidden.md", false},
		{"draft.md~", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.Matches(tt.path), tt.path)
	}
}

func TestRun_UploadsNewFile(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}
	w, err := New(testConfig(dir), up, nil)
	require.NoError(t, err)
	startWatcher(t, w)

	path := filepath.Join(dir, "handbook.md")
	require.NoError(t, os.WriteFile(path, []byte("# Handbook"), 0o644))

	res := nextResult(t, w)
	assert.Equal(t, path, res.Path)
	assert.NoError(t, res.Err)
	assert.Equal(t, []string{path}, up.uploaded())
}

func TestRun_DebouncesBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}
	cfg := testConfig(dir)
	cfg.Debounce = 200 * time.Millisecond
	w, err := New(cfg, up, nil)
	require.NoError(t, err)
	startWatcher(t, w)

	path := filepath.Join(dir, "growing.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(time.Now().String()), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	nextResult(t, w)
	time.Sleep(300 * time.Millisecond)
	assert.Len(t, up.uploaded(), 1)
}

func TestRun_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}
	w, err := New(testConfig(dir), up, nil)
	require.NoError(t, err)
	startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte("png"), 0o644))
	wanted := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(wanted, []byte("%PDF"), 0o644))

	res := nextResult(t, w)
	assert.Equal(t, wanted, res.Path)
	assert.Equal(t, []string{wanted}, up.uploaded())
}

func TestRun_ReportsUploadErrors(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{err: errors.New("backend down")}
	w, err := New(testConfig(dir), up, nil)
	require.NoError(t, err)
	startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	res := nextResult(t, w)
	assert.EqualError(t, res.Err, "backend down")
}

func TestRun_RecursiveWatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}
	cfg := testConfig(dir)
	cfg.Recursive = true
	w, err := New(cfg, up, nil)
	require.NoError(t, err)
	startWatcher(t, w)

	sub := filepath.Join(dir, "quarterly")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(50 * time.Millisecond)

	path := filepath.Join(sub, "q3.md")
	require.NoError(t, os.WriteFile(path, []byte("q3"), 0o644))

	res := nextResult(t, w)
	assert.Equal(t, path, res.Path)
}

func TestRun_ClosesResultsOnCancel(t *testing.T) {
	w, err := New(testConfig(t.TempDir()), &fakeUploader{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_, ok := <-w.Results()
	assert.False(t, ok)
}

func TestSettled_OnlyReturnsQuietPaths(t *testing.T) {
	w, err := New(testConfig(t.TempDir()), &fakeUploader{}, nil)
	require.NoError(t, err)

	now := time.Now()
	w.pending["old.md"] = now.Add(-time.Second)
	w.pending["fresh.md"] = now

	assert.Equal(t, []string{"old.md"}, w.settled(now))
	assert.Contains(t, w.pending, "fresh.md")
	assert.NotContains(t, w.pending, "old.md")
}
