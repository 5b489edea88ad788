// Package watcher auto-imports Fooocus preset files dropped into a directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"presetd/internal/common/fsutil"
	"presetd/internal/fooocus"
	"presetd/internal/store"
)

// settleDelay gives the writing process time to finish before we read the
// file; editors and browsers often emit several write events per save.
const settleDelay = 200 * time.Millisecond

// Watcher imports *.json preset files appearing in a drop directory into the
// preset store. Files that fail to parse are logged and skipped; a bad drop
// must not wedge the watch loop.
type Watcher struct {
	dir     string
	presets *store.PresetStore
	log     zerolog.Logger

	mu       sync.Mutex
	pending  map[string]*time.Timer
	imported func(name string) // test hook, may be nil
}

// New builds a watcher over dir. A leading '~' is expanded and the directory
// is created if missing.
func New(dir string, presets *store.PresetStore, log zerolog.Logger) (*Watcher, error) {
	dir, err := fsutil.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	return &Watcher{
		dir:     dir,
		presets: presets,
		log:     log.With().Str("component", "watcher").Logger(),
		pending: map[string]*time.Timer{},
	}, nil
}

// Run watches until ctx is cancelled. It returns the error that stopped the
// watch, or nil on clean cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info().Str("dir", w.dir).Msg("watching for preset drops")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(evt.Name), ".json") {
				continue
			}
			w.schedule(ctx, evt.Name)
		}
	}
}

// schedule coalesces bursts of events for one file into a single import.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.importFile(ctx, path)
	})
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn().Str("file", path).Err(err).Msg("read dropped file")
		return
	}
	p, err := fooocus.Parse(data)
	if err != nil {
		w.log.Warn().Str("file", path).Err(err).Msg("skipping unparseable preset")
		return
	}
	// Use the file name (sans extension) over the base-model fallback.
	if name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)); name != "" {
		p.Name = name
	}
	created := w.presets.Create(ctx, p)
	if created == nil {
		w.log.Error().Str("file", path).Str("err", w.presets.Err()).Msg("import failed")
		return
	}
	w.log.Info().Str("file", path).Str("preset", created.Name).Msg("preset imported")
	if w.imported != nil {
		w.imported(created.Name)
	}
}
