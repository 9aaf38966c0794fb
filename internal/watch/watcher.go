// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch auto-ingests documents dropped into a directory.
//
// File system events are collected into a pending map and flushed once a
// path has been quiet for the debounce interval, so an editor's burst of
// writes becomes a single upload. Uploads run sequentially and are throttled
// by a token bucket.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/aura-tui/internal/api"
	"github.com/jeranaias/aura-tui/internal/logging"
)

// ErrNotDirectory is returned when the watch target is not a directory.
var ErrNotDirectory = errors.New("watch target is not a directory")

// DefaultExtensions are the document types uploaded when none are configured.
var DefaultExtensions = []string{".pdf", ".txt", ".md"}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Uploader sends one file to the backend.
type Uploader interface {
	IngestFilePath(ctx context.Context, path string) (*api.IngestResponse, error)
}

// Config controls a Watcher.
type Config struct {
	Dir              string
	Debounce         time.Duration
	Extensions       []string
	UploadsPerSecond float64
	Recursive        bool

	// Tick is how often the pending map is scanned. Defaults to a quarter
	// of Debounce.
	Tick time.Duration
}

func (c *Config) setDefaults() {
	if c.Debounce <= 0 {
		c.Debounce = 500 * time.Millisecond
	}
	if len(c.Extensions) == 0 {
		c.Extensions = DefaultExtensions
	}
	if c.UploadsPerSecond <= 0 {
		c.UploadsPerSecond = 2
	}
	if c.Tick <= 0 {
		c.Tick = max(c.Debounce/4, 10*time.Millisecond)
	}
}

// Result reports one upload attempt.
type Result struct {
	Path string
	Err  error
	At   time.Time
}

// =============================================================================
// WATCHER
// =============================================================================

// Watcher uploads settled files from a directory tree.
type Watcher struct {
	cfg      Config
	uploader Uploader
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	results  chan Result

	mu      sync.Mutex
	pending map[string]time.Time // path -> last change time
}

// New creates a watcher for cfg.Dir. Call Run to start it.
func New(cfg Config, uploader Uploader, logger *zap.Logger) (*Watcher, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = logging.Nop()
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, cfg.Dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		cfg:      cfg,
		uploader: uploader,
		logger:   logger.With(zap.String("dir", cfg.Dir)),
		watcher:  fw,
		limiter:  rate.NewLimiter(rate.Limit(cfg.UploadsPerSecond), 1),
		results:  make(chan Result, 16),
		pending:  make(map[string]time.Time),
	}, nil
}

// Results delivers one Result per upload. It is closed when Run returns.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Matches reports whether path has a watched extension and is not a
// hidden or editor temporary file.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return slices.Contains(w.cfg.Extensions, strings.ToLower(filepath.Ext(base)))
}

// Run watches until ctx is cancelled. It closes the underlying watcher and
// the Results channel before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.results)
	defer w.watcher.Close()

	if err := w.addDir(w.cfg.Dir); err != nil {
		return err
	}
	w.logger.Info("watching for documents",
		zap.Strings("extensions", w.cfg.Extensions),
		zap.Duration("debounce", w.cfg.Debounce),
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processPending(ctx)
	}()

	err := w.processEvents(ctx)
	wg.Wait()
	return err
}

// addDir adds dir, and its subdirectories when recursive.
func (w *Watcher) addDir(dir string) error {
	if !w.cfg.Recursive {
		return w.watcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

// processEvents records write and create events until ctx is done.
func (w *Watcher) processEvents(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && w.cfg.Recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addDir(event.Name)
			return
		}
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		if !w.Matches(event.Name) {
			return
		}
		w.mu.Lock()
		w.pending[event.Name] = time.Now()
		w.mu.Unlock()

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.pending, event.Name)
		w.mu.Unlock()
	}
}

// processPending flushes settled paths on every tick.
func (w *Watcher) processPending(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, path := range w.settled(time.Now()) {
				if !w.upload(ctx, path) {
					return
				}
			}
		}
	}
}

// settled removes and returns the paths quiet for at least the debounce.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.cfg.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(ready)
	return ready
}

// upload sends one file and publishes its Result. It returns false when ctx
// was cancelled.
func (w *Watcher) upload(ctx context.Context, path string) bool {
	if err := w.limiter.Wait(ctx); err != nil {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return true
	}

	_, err = w.uploader.IngestFilePath(ctx, path)
	if err != nil {
		w.logger.Warn("upload failed", zap.String("file", path), zap.Error(err))
	} else {
		w.logger.Info("uploaded", zap.String("file", path), zap.Int64("bytes", info.Size()))
	}

	select {
	case w.results <- Result{Path: path, Err: err, At: time.Now()}:
		return true
	case <-ctx.Done():
		return false
	}
}
