package worker

import (
	"context"
	"errors"

	"attendance.service/internal/core/model"
	"attendance.service/internal/observability"
)

// ErrQueueClosed is returned by Enqueue after Close.
var ErrQueueClosed = errors.New("report queue is closed")

// Queue is the in-process, multi-producer multi-consumer channel between the
// report coordinator and the worker pool. The report pipeline is pinned to a
// single process (the ledger lives in memory), so the queue is a buffered Go
// channel rather than a broker. Ordering across jobs is not guaranteed.
type Queue struct {
	items chan model.ReportWorkItem
	done  chan struct{}
}

// NewQueue creates a queue buffering up to size work items. Enqueue blocks
// once the buffer is full, which is the only backpressure this pipeline has.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		items: make(chan model.ReportWorkItem, size),
		done:  make(chan struct{}),
	}
}

// Enqueue hands a work item to the pool, honoring context cancellation.
func (q *Queue) Enqueue(ctx context.Context, item model.ReportWorkItem) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	case q.items <- item:
		observability.SetQueueDepth(len(q.items))
		return nil
	}
}

// Items exposes the consumer side for the worker pool.
func (q *Queue) Items() <-chan model.ReportWorkItem {
	return q.items
}

// Close stops accepting new items. The items channel itself is never closed
// so a racing Enqueue can not panic; the pool stops through its context.
func (q *Queue) Close() {
	close(q.done)
}
