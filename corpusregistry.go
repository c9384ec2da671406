package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gamma-omg/medbot-mcp/matcher"
	"github.com/gamma-omg/medbot-mcp/readers"
)

// CorpusRegistry owns the corpus file and publishes an immutable matcher
// built from it. Reloads swap the whole matcher, so requests in flight keep
// using the one they started with.
type CorpusRegistry struct {
	log              *slog.Logger
	path             string
	reader           readers.Reader
	opts             matcher.Options
	mergeEventsDelay time.Duration
	metrics          *Metrics

	current atomic.Pointer[matcher.Matcher]
}

func NewCorpusRegistry(log *slog.Logger, path string, reader readers.Reader, opts matcher.Options, mergeEventsDelay time.Duration, metrics *Metrics) *CorpusRegistry {
	cr := &CorpusRegistry{
		log:              log,
		path:             path,
		reader:           reader,
		opts:             opts,
		mergeEventsDelay: mergeEventsDelay,
		metrics:          metrics,
	}
	cr.current.Store(matcher.New(nil, opts))
	return cr
}

// Matcher returns the matcher for the most recently loaded corpus.
func (cr *CorpusRegistry) Matcher() *matcher.Matcher {
	return cr.current.Load()
}

// Load reads the corpus file and publishes a new matcher. On failure the
// previous matcher stays in place.
func (cr *CorpusRegistry) Load() error {
	entries, err := cr.reader.ReadEntries(cr.path)
	if err != nil {
		cr.metrics.corpusFailed()
		return fmt.Errorf("failed to load corpus %s: %w", cr.path, err)
	}

	m := matcher.New(entries, cr.opts)
	cr.current.Store(m)
	cr.metrics.corpusLoaded(m.Len())
	cr.log.Info("corpus loaded", "path", cr.path, "entries", m.Len())

	return nil
}

// Watch reloads the corpus whenever its file changes. Bursts of events are
// merged into one reload. It returns once the watcher is set up.
func (cr *CorpusRegistry) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(cr.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go cr.watchLoop(ctx, w)
	return nil
}

func (cr *CorpusRegistry) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	defer w.Close()

	target := filepath.Clean(cr.path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || ev.Op == fsnotify.Chmod {
				continue
			}

			cr.log.Debug("corpus file event", "event", ev.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(cr.mergeEventsDelay)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if err := cr.Load(); err != nil {
				cr.log.Error("corpus reload failed, keeping previous corpus", "error", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			cr.log.Warn(fmt.Sprintf("watcher error: %s", err))
		}
	}
}
