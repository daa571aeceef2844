package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectindex/internal/discover"
)

func TestBatchDebouncer_EmitsOnceAfterDelay(t *testing.T) {
	t.Parallel()
	emitted := make(chan []discover.Entry, 1)
	b := NewBatchDebouncer(20*time.Millisecond, func(e []discover.Entry) { emitted <- e })

	b.Add(discover.Entry{RelPath: "a.go"})

	select {
	case batch := <-emitted:
		require.Len(t, batch, 1)
		assert.Equal(t, "a.go", batch[0].RelPath)
	case <-time.After(time.Second):
		t.Fatal("debouncer never emitted")
	}
}

func TestBatchDebouncer_RapidAddsCollapseIntoOneBatch(t *testing.T) {
	t.Parallel()
	emitted := make(chan []discover.Entry, 4)
	b := NewBatchDebouncer(30*time.Millisecond, func(e []discover.Entry) { emitted <- e })

	for i := 0; i < 5; i++ {
		b.Add(discover.Entry{RelPath: "a.go"})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case batch := <-emitted:
		assert.Len(t, batch, 1, "repeated Adds to the same path dedupe into one entry")
	case <-time.After(time.Second):
		t.Fatal("debouncer never emitted")
	}

	select {
	case <-emitted:
		t.Fatal("debouncer emitted a second time for a single settled batch")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBatchDebouncer_DedupesByRelPathKeepingLatest(t *testing.T) {
	t.Parallel()
	emitted := make(chan []discover.Entry, 1)
	b := NewBatchDebouncer(20*time.Millisecond, func(e []discover.Entry) { emitted <- e })

	b.Add(discover.Entry{RelPath: "a.go", Size: 10})
	b.Add(discover.Entry{RelPath: "a.go", Size: 20})
	b.Add(discover.Entry{RelPath: "b.go", Size: 5})

	select {
	case batch := <-emitted:
		require.Len(t, batch, 2)
		byPath := make(map[string]discover.Entry)
		for _, e := range batch {
			byPath[e.RelPath] = e
		}
		assert.EqualValues(t, 20, byPath["a.go"].Size)
	case <-time.After(time.Second):
		t.Fatal("debouncer never emitted")
	}
}

func TestBatchDebouncer_FlushEmitsImmediatelyAndIsSafeWhenEmpty(t *testing.T) {
	t.Parallel()
	emitted := make(chan []discover.Entry, 1)
	b := NewBatchDebouncer(time.Hour, func(e []discover.Entry) { emitted <- e })

	b.Add(discover.Entry{RelPath: "a.go"})
	b.Flush()

	select {
	case batch := <-emitted:
		require.Len(t, batch, 1)
	case <-time.After(time.Second):
		t.Fatal("Flush did not emit immediately")
	}

	// A second Flush with nothing pending must not call emit again.
	b.Flush()
	select {
	case <-emitted:
		t.Fatal("Flush emitted with nothing pending")
	case <-time.After(100 * time.Millisecond):
	}
}
