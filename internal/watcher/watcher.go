// file: internal/watcher/watcher.go
// version: 4.0.0
// guid: b2c3d4e5-f6a7-8901-bcde-f23456789012

// Package watcher reports settled changes to a single file.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is the default debounce period.
const DefaultDebounce = 250 * time.Millisecond

const changeOps = fsnotify.Create | fsnotify.Remove | fsnotify.Rename | fsnotify.Write

// Callback receives the absolute path of the watched file.
type Callback func(path string)

// Watcher calls back once writes to a file have been quiet for the debounce
// period. It watches the parent directory so rename-and-replace saves are
// seen. Debouncing and the callback both run on the event goroutine.
type Watcher struct {
	debounce time.Duration
	callback Callback

	mu     sync.Mutex
	path   string
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Watcher. Pass 0 for debounce to use DefaultDebounce.
func New(callback Callback, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce, callback: callback}
}

// Start begins watching path. Starting a running watcher does nothing.
func (w *Watcher) Start(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watcher: resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return fmt.Errorf("watcher: watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.path = abs
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, fsw, w.done)

	log.Debug().Str("path", abs).Dur("debounce", w.debounce).Msg("watcher: started")
	return nil
}

// Stop ends the event goroutine and waits for a running callback.
// A pending change that has not settled is dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// IsTarget reports whether name refers to the watched file.
func (w *Watcher) IsTarget(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return abs == w.path
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer fsw.Close()

	var (
		timer   *time.Timer
		settled <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&changeOps == 0 || !w.IsTarget(ev.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			settled = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher: fsnotify error")

		case <-settled:
			settled = nil
			w.mu.Lock()
			path := w.path
			w.mu.Unlock()
			log.Info().Str("path", path).Msg("watcher: change settled")
			if w.callback != nil {
				w.callback(path)
			}
		}
	}
}
