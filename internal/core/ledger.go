package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"attendance.service/internal/core/model"
	"github.com/rs/zerolog/log"
)

// Ledger is the in-memory job store for report generation. It is an owned,
// injectable object rather than process-wide state so instances and tests
// stay isolated.
//
// Transitions are monotonic: PENDING -> PROCESSING -> COMPLETED or FAILED,
// never backward. A result buffer exists if and only if the job is
// COMPLETED. Finished jobs are evicted after ttl by the janitor, which keeps
// the ledger from growing without bound over the life of the process.
type Ledger struct {
	mu   sync.RWMutex
	jobs map[string]*model.ReportJob
	ttl  time.Duration
	now  func() time.Time
}

// NewLedger creates a ledger whose finished jobs live for ttl. A zero ttl
// disables eviction.
func NewLedger(ttl time.Duration) *Ledger {
	return &Ledger{
		jobs: make(map[string]*model.ReportJob),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create inserts a new PENDING job.
func (l *Ledger) Create(id string, format model.ReportFormat, start, end time.Time) *model.ReportJob {
	l.mu.Lock()
	defer l.mu.Unlock()

	job := &model.ReportJob{
		ID:        id,
		Status:    model.StatusReportPending,
		Format:    format,
		StartDate: start,
		EndDate:   end,
		CreatedAt: l.now(),
	}
	l.jobs[id] = job

	out := *job
	return &out
}

// Get returns a copy of the job, or false when the id is unknown.
func (l *Ledger) Get(id string) (model.ReportJob, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	job, ok := l.jobs[id]
	if !ok {
		return model.ReportJob{}, false
	}
	return *job, true
}

// MarkProcessing moves a PENDING job to PROCESSING.
func (l *Ledger) MarkProcessing(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	job, ok := l.jobs[id]
	if !ok {
		return fmt.Errorf("unknown report job %q", id)
	}
	if job.Status != model.StatusReportPending {
		return fmt.Errorf("report job %q is %s, cannot move to PROCESSING", id, job.Status)
	}
	job.Status = model.StatusReportProcessing
	return nil
}

// Complete stores the rendered document and moves the job to COMPLETED.
func (l *Ledger) Complete(id string, buf []byte, contentType string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	job, ok := l.jobs[id]
	if !ok {
		return fmt.Errorf("unknown report job %q", id)
	}
	if job.Finished() {
		return fmt.Errorf("report job %q already %s", id, job.Status)
	}
	job.Status = model.StatusReportCompleted
	job.Result = buf
	job.ContentType = contentType
	job.FinishedAt = l.now()
	return nil
}

// Fail records the failure reason and moves the job to FAILED.
func (l *Ledger) Fail(id, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	job, ok := l.jobs[id]
	if !ok {
		return fmt.Errorf("unknown report job %q", id)
	}
	if job.Finished() {
		return fmt.Errorf("report job %q already %s", id, job.Status)
	}
	job.Status = model.StatusReportFailed
	job.FailureReason = reason
	job.FinishedAt = l.now()
	return nil
}

// Sweep evicts finished jobs older than ttl and returns how many it removed.
func (l *Ledger) Sweep() int {
	if l.ttl <= 0 {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.ttl)
	removed := 0
	for id, job := range l.jobs {
		if job.Finished() && job.FinishedAt.Before(cutoff) {
			delete(l.jobs, id)
			removed++
		}
	}
	return removed
}

// Len reports how many jobs are currently held.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.jobs)
}

// StartJanitor runs the eviction sweep every interval until ctx is canceled.
func (l *Ledger) StartJanitor(ctx context.Context, interval time.Duration) {
	if l.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				log.Info().Int("evicted", n).Msg("Ledger janitor evicted finished report jobs")
			}
		}
	}
}
