package core

import (
	"context"
	"time"

	"attendance.service/internal/core/apperr"
	"attendance.service/internal/core/model"
	"attendance.service/internal/observability"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportQueue is the output port the coordinator pushes work items through.
// The worker pool consumes the other end.
type ReportQueue interface {
	Enqueue(ctx context.Context, item model.ReportWorkItem) error
}

// ReportService is the job coordinator: it allocates job ids, owns the
// ledger, and hands work items to the queue. It never renders anything
// itself; status transitions past PENDING belong to the worker.
type ReportService struct {
	ledger *Ledger
	queue  ReportQueue
}

func NewReportService(ledger *Ledger, queue ReportQueue) *ReportService {
	return &ReportService{
		ledger: ledger,
		queue:  queue,
	}
}

// Start registers a PENDING job and enqueues it, returning the job id
// immediately. Date ordering is not validated: start after end simply yields
// an empty report downstream.
func (s *ReportService) Start(ctx context.Context, format model.ReportFormat, start, end time.Time) (string, error) {
	jobID := uuid.NewString()
	s.ledger.Create(jobID, format, start, end)

	item := model.ReportWorkItem{
		JobID:     jobID,
		Format:    format,
		StartDate: start,
		EndDate:   end,
	}

	if err := s.queue.Enqueue(ctx, item); err != nil {
		// The job would sit PENDING forever without a worker ever seeing it.
		if ferr := s.ledger.Fail(jobID, "failed to enqueue report job"); ferr != nil {
			log.Ctx(ctx).Error().Err(ferr).Str("job_id", jobID).Msg("Could not mark unenqueued job failed")
		}
		return "", apperr.Internal("failed to enqueue report job", err)
	}

	observability.RecordJobStarted(string(format))
	return jobID, nil
}

// Status returns the job's current status.
func (s *ReportService) Status(ctx context.Context, jobID string) (model.ReportStatus, error) {
	job, ok := s.ledger.Get(jobID)
	if !ok {
		return "", apperr.NotFound("job not found")
	}
	return job.Status, nil
}

// Download returns the rendered document for a COMPLETED job. Every other
// status, including FAILED, is "not ready" from the caller's point of view.
func (s *ReportService) Download(ctx context.Context, jobID string) ([]byte, string, error) {
	job, ok := s.ledger.Get(jobID)
	if !ok || job.Status != model.StatusReportCompleted {
		return nil, "", apperr.NotFound("report not ready")
	}
	return job.Result, job.ContentType, nil
}
