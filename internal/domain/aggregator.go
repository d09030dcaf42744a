package domain

import (
	"cmp"
	"context"
	"slices"
	"sync"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

// ProgressFunc is told about every file outcome as the aggregator records it.
// done counts recorded outcomes, total is the number of files expected.
type ProgressFunc func(done, total int, outcome m.FileOutcome)

// ResultAggregator collects per-file outcomes from concurrent workers.
//
// Outcomes travel over a channel to a single consumer goroutine, which is the
// only code touching the accumulated results. Close is the barrier after which
// the sorted ScanResult is available.
type ResultAggregator struct {
	outcomes chan m.FileOutcome
	done     chan struct{}
	progress ProgressFunc
	total    int

	mu     sync.RWMutex
	closed bool

	result m.ScanResult
}

// NewResultAggregator starts the consumer goroutine. progress may be nil.
func NewResultAggregator(total int, progress ProgressFunc) *ResultAggregator {
	a := &ResultAggregator{
		outcomes: make(chan m.FileOutcome, max(total, 1)),
		done:     make(chan struct{}),
		progress: progress,
		total:    total,
	}

	go a.consume()

	return a
}

// Add hands one outcome to the consumer. It returns model.ErrAggregatorClosed
// after Close, or the context error if ctx ends while waiting.
func (a *ResultAggregator) Add(ctx context.Context, outcome m.FileOutcome) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return m.ErrAggregatorClosed
	}

	select {
	case a.outcomes <- outcome:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting outcomes, waits for the consumer to drain and returns
// the result with occurrences ordered by file, line and column and failures
// ordered by path. Calling Close again returns the same result.
func (a *ResultAggregator) Close() m.ScanResult {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.outcomes)
	}
	a.mu.Unlock()

	<-a.done

	return a.result
}

func (a *ResultAggregator) consume() {
	defer close(a.done)

	occurrences := []m.Occurrence{}
	failures := []m.FileFailure{}
	scanned := 0
	recorded := 0

	for outcome := range a.outcomes {
		recorded++

		if outcome.Failure != nil {
			failures = append(failures, *outcome.Failure)
		} else {
			scanned++
			occurrences = append(occurrences, outcome.Occurrences...)
		}

		if a.progress != nil {
			a.progress(recorded, a.total, outcome)
		}
	}

	slices.SortStableFunc(occurrences, m.CompareOccurrences)
	slices.SortStableFunc(failures, func(x, y m.FileFailure) int {
		return cmp.Compare(x.Path, y.Path)
	})

	a.result = m.ScanResult{
		FilesDiscovered: a.total,
		FilesScanned:    scanned,
		Occurrences:     occurrences,
		Failures:        failures,
	}
}
