package worker

import (
	"context"
	"sync"

	"attendance.service/internal/core/model"
	"attendance.service/internal/observability"
	"attendance.service/pkg/logger"
	"github.com/rs/zerolog/log"
)

// ReportProcessor is the logic for one report work item. Errors are already
// reflected in the job ledger by the processor; the pool only logs them.
type ReportProcessor interface {
	Process(ctx context.Context, item model.ReportWorkItem) error
}

// Pool is the report worker: a set of goroutines draining the in-process
// queue. Multiple workers may run concurrently across different job ids; a
// single work item is only ever consumed once.
type Pool struct {
	queue     *Queue
	processor ReportProcessor
	// Concurrency controls how many work items can be processed at the same time.
	Concurrency int
}

// NewPool creates a report worker pool, ready to be started.
func NewPool(queue *Queue, processor ReportProcessor) *Pool {
	return &Pool{
		queue:       queue,
		processor:   processor,
		Concurrency: 4,
	}
}

// Start runs the pool until the context is canceled, then waits for in-flight
// items to finish.
func (p *Pool) Start(ctx context.Context) {
	log.Info().Int("concurrency", p.Concurrency).Msg("Report worker pool started")

	var wg sync.WaitGroup
	for i := 0; i < p.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.consume(ctx)
		}()
	}
	wg.Wait()

	log.Info().Msg("Report worker pool stopped")
}

func (p *Pool) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-p.queue.Items():
			observability.SetQueueDepth(len(p.queue.Items()))
			p.handle(ctx, item)
		}
	}
}

// handle processes one work item. A failing job must never take the worker
// loop down with it.
func (p *Pool) handle(ctx context.Context, item model.ReportWorkItem) {
	ctx = logger.EnrichContextWithLogger(ctx)

	if err := p.processor.Process(ctx, item); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("job_id", item.JobID).Msg("Report job failed")
		return
	}
	log.Ctx(ctx).Info().Str("job_id", item.JobID).Msg("Report job completed")
}
