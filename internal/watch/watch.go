// Package watch implements the Watcher: it polls the project tree,
// batches changed paths through a debouncer, and applies them as a single
// incremental update, mirroring SimplyLiz-CodeMCP's BatchDebouncer/poll
// pattern (git-change detection there, file-size comparison here). An edit
// that leaves a file's size unchanged is not detected.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"projectindex/internal/discover"
)

// DefaultDebounce mirrors the spec's 500-1000ms batching window.
const DefaultDebounce = 750 * time.Millisecond

// DefaultPollInterval is how often the tree is rescanned for size changes
// (modification times are not compared) between debounced update
// applications.
const DefaultPollInterval = 2 * time.Second

// UpdateFunc applies a batch of changed repo-relative paths to the index
// and persists the result. It returns an error if the update failed, in
// which case the batch is re-queued for the next debounce cycle.
type UpdateFunc func(ctx context.Context, changed []discover.Entry, currentSet map[string]bool) error

// Watcher polls a project root and applies debounced incremental updates.
type Watcher struct {
	root         string
	opts         discover.Options
	logger       *slog.Logger
	apply        UpdateFunc
	pollInterval time.Duration

	mu        sync.Mutex
	lastSeen  map[string]int64 // relPath -> last-seen size
	batch     *BatchDebouncer
	requeued  map[string]discover.Entry
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a Watcher. apply is called with the batch of changed
// entries whenever the debounce window elapses.
func New(root string, opts discover.Options, logger *slog.Logger, debounce time.Duration, apply UpdateFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		root:         root,
		opts:         opts,
		logger:       logger,
		apply:        apply,
		pollInterval: DefaultPollInterval,
		lastSeen:     make(map[string]int64),
		requeued:     make(map[string]discover.Entry),
	}
	w.batch = NewBatchDebouncer(debounce, w.flush)
	return w
}

// Start begins polling in the background. Call Stop to end it, which
// drains any pending batch synchronously before returning.
func (w *Watcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.ctx = ctx
	w.cancel = cancel

	entries, err := discover.Discover(w.root, w.opts)
	if err != nil {
		cancel()
		return err
	}
	w.mu.Lock()
	for _, e := range entries {
		w.lastSeen[e.RelPath] = e.Size
	}
	w.mu.Unlock()

	w.wg.Add(1)
	go w.pollLoop()
	return nil
}

// Stop cancels polling and flushes any pending debounced batch.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.batch.Flush()
}

func (w *Watcher) pollLoop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.scanOnce()
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Watcher) scanOnce() {
	entries, err := discover.Discover(w.root, w.opts)
	if err != nil {
		w.logger.Warn("watch scan failed", "error", err)
		return
	}

	current := make(map[string]discover.Entry, len(entries))
	for _, e := range entries {
		current[e.RelPath] = e
	}

	w.mu.Lock()
	for path, e := range current {
		prev, existed := w.lastSeen[path]
		if !existed || prev != e.Size {
			w.batch.Add(e)
		}
	}
	for path := range w.lastSeen {
		if _, stillPresent := current[path]; !stillPresent {
			w.batch.Add(discover.Entry{RelPath: path})
		}
	}
	w.lastSeen = make(map[string]int64, len(current))
	for path, e := range current {
		w.lastSeen[path] = e.Size
	}
	w.mu.Unlock()
}

func (w *Watcher) flush(entries []discover.Entry) {
	w.mu.Lock()
	for _, e := range w.requeued {
		entries = append(entries, e)
	}
	w.requeued = make(map[string]discover.Entry)
	w.mu.Unlock()

	if len(entries) == 0 {
		return
	}

	currentEntries, err := discover.Discover(w.root, w.opts)
	if err != nil {
		w.logger.Warn("watch flush discover failed", "error", err)
		w.requeueAll(entries)
		return
	}
	currentSet := make(map[string]bool, len(currentEntries))
	for _, e := range currentEntries {
		currentSet[e.RelPath] = true
	}

	if err := w.apply(w.ctx, entries, currentSet); err != nil {
		w.logger.Warn("watch update failed, requeuing", "error", err, "batch_size", len(entries))
		w.requeueAll(entries)
		return
	}
	w.logger.Info("watch update applied", "files", len(entries))
}

func (w *Watcher) requeueAll(entries []discover.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entries {
		w.requeued[e.RelPath] = e
	}
}
