// file: internal/catalog/catalog.go
// version: 1.0.0
// guid: c4a81f26-03de-4b7c-92e5-6d1f8b40a7e3

package catalog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jdfalk/cfr-navigator/internal/metrics"
	"github.com/jdfalk/cfr-navigator/internal/watcher"
)

// ReloadFunc is called with the new snapshot after each successful reload.
type ReloadFunc func(*Snapshot)

// Catalog owns the current snapshot of the conditions file. Readers grab a
// snapshot with Snapshot and never see a partially loaded catalog.
type Catalog struct {
	path       string
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64

	mu        sync.Mutex // serializes reloads and listener changes
	listeners []ReloadFunc
	watcher   *watcher.Watcher
}

// New creates a catalog for path without loading it.
func New(path string) *Catalog {
	c := &Catalog{path: path}
	c.current.Store(NewSnapshot(nil))
	return c
}

// Open creates a catalog and performs the initial load.
func Open(path string) (*Catalog, error) {
	c := New(path)
	if _, err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the catalog file path.
func (c *Catalog) Path() string { return c.path }

// Snapshot returns the current snapshot. It is never nil.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// OnReload registers fn to run after every successful reload.
func (c *Catalog) OnReload(fn ReloadFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Reload reads the file again and swaps the snapshot in. On error the
// current snapshot stays in place.
func (c *Catalog) Reload() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conditions, err := Load(c.path)
	if err != nil {
		metrics.IncCatalogReload("error")
		log.Error().Err(err).Str("path", c.path).Msg("catalog: load failed, keeping current snapshot")
		return nil, err
	}

	snap := NewSnapshot(conditions)
	snap.Source = c.path
	snap.Generation = c.generation.Add(1)
	c.current.Store(snap)

	metrics.IncCatalogReload("success")
	metrics.SetConditions(snap.Len())
	metrics.SetCatalogGeneration(snap.Generation)
	log.Info().
		Str("path", c.path).
		Int("conditions", snap.Len()).
		Uint64("generation", snap.Generation).
		Msg("catalog: loaded")

	for _, fn := range c.listeners {
		fn(snap)
	}
	return snap, nil
}

// Watch reloads the catalog whenever the file changes. Call Close to stop.
func (c *Catalog) Watch(debounce time.Duration) error {
	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		return nil
	}
	w := watcher.New(func(string) {
		_, _ = c.Reload()
	}, debounce)
	c.watcher = w
	c.mu.Unlock()

	if err := w.Start(c.path); err != nil {
		c.mu.Lock()
		c.watcher = nil
		c.mu.Unlock()
		return err
	}
	return nil
}

// Close stops watching. The last snapshot remains readable.
func (c *Catalog) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
