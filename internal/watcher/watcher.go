package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"minutes-backend/internal/shared/telemetry"
)

const (
	defaultMaxConcurrent = 2
	defaultSettleDelay   = 500 * time.Millisecond
)

var transcriptExts = map[string]bool{".txt": true, ".pdf": true, ".docx": true}

// Options tunes a Watcher. Zero values pick defaults.
type Options struct {
	MaxConcurrent int
	// SettleDelay is waited after a create event so the writer can finish.
	SettleDelay time.Duration
}

type implWatcher struct {
	inputDir  string
	handler   EventHandler
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	settle    time.Duration
	wg        sync.WaitGroup
}

// New watches inputDir and calls handler for each new transcript file, at most
// opts.MaxConcurrent at a time.
func New(inputDir string, handler EventHandler, opts Options) (Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher handler is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(inputDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	} else if opts.SettleDelay == 0 {
		opts.SettleDelay = defaultSettleDelay
	}

	return &implWatcher{
		inputDir:  inputDir,
		handler:   handler,
		watcher:   fw,
		semaphore: make(chan struct{}, opts.MaxConcurrent),
		settle:    opts.SettleDelay,
	}, nil
}

// Start blocks until ctx is cancelled, then waits for in-flight files.
func (w *implWatcher) Start(ctx context.Context) error {
	telemetry.Info("watcher.started", map[string]any{
		"dir":            w.inputDir,
		"max_concurrent": cap(w.semaphore),
	})

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			telemetry.Info("watcher.stopped", map[string]any{"dir": w.inputDir})
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isTranscript(event.Name) {
				telemetry.Debug("watcher.ignored", map[string]any{"file": event.Name})
				continue
			}

			select {
			case w.semaphore <- struct{}{}:
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}
			w.wg.Add(1)
			go w.handle(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher errors channel closed")
			}
			telemetry.Error("watcher.error", map[string]any{"error": err})
		}
	}
}

func (w *implWatcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()

	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}
	telemetry.Info("watcher.detected", map[string]any{"file": path})
	if err := w.handler(ctx, path); err != nil {
		telemetry.Error("watcher.process_failed", map[string]any{"file": path, "error": err})
	}
}

// Stop closes the underlying fsnotify watcher.
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func isTranscript(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return transcriptExts[strings.ToLower(filepath.Ext(base))]
}
