package pool

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

type rangeChunk struct {
	lo, hi  int
	claimed atomic.Bool
}

// ForRange calls fn for every index in [begin, end) using up to p.Workers()
// goroutines and returns once every index has been processed.
//
// The range is split into contiguous chunks, one job per chunk. The calling
// goroutine also runs any chunk no worker has claimed yet, so ForRange makes
// progress when the pool is saturated or closed, or when it is called from
// inside a job. Chunks are never queued by waiting on a full bounded queue;
// the caller runs them instead. Completion is tracked per call: unrelated
// jobs on the same pool do not delay it. Indices within a chunk run in order;
// chunks run in no particular order.
//
// If fn panics, the rest of that chunk is skipped and the first panic is
// returned as a *PanicError after all other chunks finish. A nil pool runs
// everything on the caller.
func ForRange(p *Pool, begin, end int, fn func(int)) error {
	if end <= begin {
		return nil
	}
	n := end - begin

	numChunks := 1
	if p != nil {
		numChunks = min(p.Workers(), n)
	}
	size := (n + numChunks - 1) / numChunks

	chunks := make([]rangeChunk, (n+size-1)/size)
	for i := range chunks {
		chunks[i].lo = begin + i*size
		chunks[i].hi = min(chunks[i].lo+size, end)
	}

	var (
		wg         sync.WaitGroup
		firstPanic atomic.Pointer[PanicError]
	)
	wg.Add(len(chunks))

	run := func(c *rangeChunk) {
		if !c.claimed.CompareAndSwap(false, true) {
			return
		}
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				firstPanic.CompareAndSwap(nil, &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		for i := c.lo; i < c.hi; i++ {
			fn(i)
		}
	}

	if p != nil && len(chunks) > 1 {
		for i := range chunks {
			c := &chunks[i]
			if err := p.trySubmit(func() { run(c) }); err != nil {
				break
			}
		}
	}

	// Chunks that could not be queued are run here. Walk from the tail:
	// workers dequeue from the head.
	for i := len(chunks) - 1; i >= 0; i-- {
		run(&chunks[i])
	}
	wg.Wait()

	if pe := firstPanic.Load(); pe != nil {
		return pe
	}
	return nil
}

// ForEach calls fn for every element of items using the pool. See ForRange.
func ForEach[T any](p *Pool, items []T, fn func(T)) error {
	return ForRange(p, 0, len(items), func(i int) {
		fn(items[i])
	})
}
