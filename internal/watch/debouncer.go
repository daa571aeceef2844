package watch

import (
	"sync"
	"time"

	"projectindex/internal/discover"
)

// BatchDebouncer collects discover.Entry changes and emits them as one
// batch once delay has passed since the last Add, generalizing
// SimplyLiz-CodeMCP's BatchDebouncer from file-system events to
// discovered-entry change candidates.
type BatchDebouncer struct {
	delay   time.Duration
	timer   *time.Timer
	mu      sync.Mutex
	pending map[string]discover.Entry
	emit    func([]discover.Entry)
}

// NewBatchDebouncer creates a debouncer that calls emit with the
// deduplicated batch once delay has elapsed with no further Add calls.
func NewBatchDebouncer(delay time.Duration, emit func([]discover.Entry)) *BatchDebouncer {
	return &BatchDebouncer{
		delay:   delay,
		pending: make(map[string]discover.Entry),
		emit:    emit,
	}
}

// Add queues an entry (deduped by RelPath, latest write wins) and resets
// the debounce timer.
func (b *BatchDebouncer) Add(entry discover.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[entry.RelPath] = entry
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.delay, b.flush)
}

func (b *BatchDebouncer) flush() {
	b.mu.Lock()
	pending := b.pending
	b.pending = make(map[string]discover.Entry)
	b.timer = nil
	b.mu.Unlock()

	if len(pending) == 0 || b.emit == nil {
		return
	}
	entries := make([]discover.Entry, 0, len(pending))
	for _, e := range pending {
		entries = append(entries, e)
	}
	b.emit(entries)
}

// Flush immediately emits any pending batch, used on shutdown so no
// change is silently dropped.
func (b *BatchDebouncer) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()
	b.flush()
}
