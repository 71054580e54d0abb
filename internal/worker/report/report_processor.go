// Package report implements the worker side of the report pipeline: pull
// attendance data for the requested range, render it, and write the outcome
// back into the job ledger.
package report

import (
	"context"
	"fmt"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/observability"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/render"
	"github.com/rs/zerolog/log"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

type Processor struct {
	repo     repository.AttendanceRepository
	renderer render.Renderer
	ledger   *core.Ledger
}

// NewProcessor wires the record store, the document renderer and the job
// ledger together.
func NewProcessor(repo repository.AttendanceRepository, renderer render.Renderer, ledger *core.Ledger) *Processor {
	return &Processor{
		repo:     repo,
		renderer: renderer,
		ledger:   ledger,
	}
}

// Process handles one report job end to end. Every fetch or render failure
// transitions the job to FAILED with a reason; a job is never left PENDING
// behind a dead worker invocation.
func (p *Processor) Process(ctx context.Context, item model.ReportWorkItem) error {
	if err := p.ledger.MarkProcessing(item.JobID); err != nil {
		// Unknown or already-finished job: nothing useful left to do.
		log.Ctx(ctx).Warn().Err(err).Str("job_id", item.JobID).Msg("Skipping report work item")
		return nil
	}

	// The range is inclusive of the end date's whole day.
	from := model.StartOfDay(item.StartDate)
	to := model.StartOfDay(item.EndDate).Add(24 * time.Hour)

	entries, err := p.repo.ListRange(ctx, from, to)
	if err != nil {
		return p.fail(item, fmt.Errorf("failed to fetch attendance data: %w", err))
	}

	buf, contentType, err := p.renderer.Render(BuildRows(entries), item.Format)
	if err != nil {
		return p.fail(item, fmt.Errorf("failed to render %s report: %w", item.Format, err))
	}

	if err := p.ledger.Complete(item.JobID, buf, contentType); err != nil {
		return err
	}
	observability.RecordJobCompleted(string(item.Format))
	return nil
}

func (p *Processor) fail(item model.ReportWorkItem, cause error) error {
	if err := p.ledger.Fail(item.JobID, cause.Error()); err != nil {
		return err
	}
	observability.RecordJobFailed(string(item.Format))
	return cause
}

// BuildRows projects joined attendance entries into display rows. A deleted
// owning user and a missing clock-out both render as "N/A".
func BuildRows(entries []model.AttendanceEntry) []model.AttendanceRow {
	rows := make([]model.AttendanceRow, 0, len(entries))
	for _, entry := range entries {
		row := model.AttendanceRow{
			Date:       entry.Record.Day().Format(dateLayout),
			Employee:   "N/A",
			Email:      "N/A",
			Identifier: "N/A",
			ClockIn:    entry.Record.ClockInTime.Format(timeLayout),
			ClockOut:   "N/A",
		}
		if entry.User != nil {
			row.Employee = entry.User.FirstName + " " + entry.User.LastName
			row.Email = entry.User.Email
			row.Identifier = entry.User.EmployeeIdentifier
		}
		if entry.Record.ClockOutTime != nil {
			row.ClockOut = entry.Record.ClockOutTime.Format(timeLayout)
		}
		rows = append(rows, row)
	}
	return rows
}
