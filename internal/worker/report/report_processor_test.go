package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/render"
	"attendance.service/internal/worker"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	rows []model.AttendanceRow
	err  error
}

func (r *stubRenderer) Render(rows []model.AttendanceRow, format model.ReportFormat) ([]byte, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	r.rows = rows
	return []byte("rendered"), "application/test", nil
}

func seedCycle(t *testing.T, store *repository.InMemoryStore, userID string, in, out time.Time) {
	t.Helper()
	rec, err := store.Create(context.Background(), userID, in)
	require.NoError(t, err)
	if !out.IsZero() {
		_, err = store.SetClockOut(context.Background(), rec.ID, out)
		require.NoError(t, err)
	}
}

func TestProcessCompletesJobWithProjectedRows(t *testing.T) {
	store := repository.NewInMemoryStore()
	alice := store.AddUser(model.User{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", EmployeeIdentifier: "EMP-001"})
	seedCycle(t, store,
		alice.ID,
		time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local),
		time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local),
	)

	ledger := core.NewLedger(time.Hour)
	ledger.Create("job-1", model.FormatPDF, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local))

	renderer := &stubRenderer{}
	proc := NewProcessor(store, renderer, ledger)

	err := proc.Process(context.Background(), model.ReportWorkItem{
		JobID:     "job-1",
		Format:    model.FormatPDF,
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)

	job, ok := ledger.Get("job-1")
	require.True(t, ok)
	require.Equal(t, model.StatusReportCompleted, job.Status)
	require.Equal(t, []byte("rendered"), job.Result)
	require.Equal(t, "application/test", job.ContentType)

	require.Len(t, renderer.rows, 1)
	row := renderer.rows[0]
	require.Equal(t, "2026-03-02", row.Date)
	require.Equal(t, "Alice Smith", row.Employee)
	require.Equal(t, "alice@example.com", row.Email)
	require.Equal(t, "EMP-001", row.Identifier)
	require.Equal(t, "09:00:00", row.ClockIn)
	require.Equal(t, "17:00:00", row.ClockOut)
}

func TestProcessFailsJobOnRenderError(t *testing.T) {
	store := repository.NewInMemoryStore()
	ledger := core.NewLedger(time.Hour)
	ledger.Create("job-1", model.FormatPDF, time.Time{}, time.Time{})

	proc := NewProcessor(store, &stubRenderer{err: errors.New("font table corrupt")}, ledger)

	err := proc.Process(context.Background(), model.ReportWorkItem{JobID: "job-1", Format: model.FormatPDF})
	require.Error(t, err)

	job, ok := ledger.Get("job-1")
	require.True(t, ok)
	require.Equal(t, model.StatusReportFailed, job.Status)
	require.Contains(t, job.FailureReason, "font table corrupt")
	require.Nil(t, job.Result)
}

func TestBuildRowsSubstitutesNAForMissingData(t *testing.T) {
	out := time.Date(2026, 3, 2, 17, 30, 0, 0, time.Local)
	entries := []model.AttendanceEntry{
		{
			// User deleted after the record existed.
			Record: model.AttendanceRecord{ID: "att-1", UserID: "ghost", ClockInTime: time.Date(2026, 3, 2, 8, 15, 0, 0, time.Local)},
		},
		{
			Record: model.AttendanceRecord{ID: "att-2", UserID: "u-1", ClockInTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local), ClockOutTime: &out},
			User:   &model.User{FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", EmployeeIdentifier: "EMP-002"},
		},
	}

	rows := BuildRows(entries)
	require.Len(t, rows, 2)

	require.Equal(t, "N/A", rows[0].Employee)
	require.Equal(t, "N/A", rows[0].Email)
	require.Equal(t, "N/A", rows[0].Identifier)
	require.Equal(t, "08:15:00", rows[0].ClockIn)
	require.Equal(t, "N/A", rows[0].ClockOut, "open session renders N/A for clock-out")

	require.Equal(t, "Bob Jones", rows[1].Employee)
	require.Equal(t, "17:30:00", rows[1].ClockOut)
}

func TestProcessEmptyRangeStillCompletes(t *testing.T) {
	store := repository.NewInMemoryStore()
	ledger := core.NewLedger(time.Hour)
	// start > end: the range is empty, not an error.
	ledger.Create("job-1", model.FormatExcel, time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local), time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local))

	renderer := &stubRenderer{}
	proc := NewProcessor(store, renderer, ledger)

	err := proc.Process(context.Background(), model.ReportWorkItem{
		JobID:     "job-1",
		Format:    model.FormatExcel,
		StartDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)

	job, _ := ledger.Get("job-1")
	require.Equal(t, model.StatusReportCompleted, job.Status)
	require.Empty(t, renderer.rows)
}

// End-to-end through coordinator, queue, pool and real renderer.
func TestReportPipelineEndToEnd(t *testing.T) {
	store := repository.NewInMemoryStore()
	alice := store.AddUser(model.User{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", EmployeeIdentifier: "EMP-001"})
	dayD := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	seedCycle(t, store, alice.ID, dayD.Add(9*time.Hour), dayD.Add(17*time.Hour))

	ledger := core.NewLedger(time.Hour)
	queue := worker.NewQueue(8)
	coordinator := core.NewReportService(ledger, queue)
	pool := worker.NewPool(queue, NewProcessor(store, render.NewDocumentRenderer(), ledger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pool.Start(ctx)

	jobID, err := coordinator.Start(ctx, model.FormatPDF, dayD, dayD)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := coordinator.Status(ctx, jobID)
		return err == nil && status == model.StatusReportCompleted
	}, 5*time.Second, 10*time.Millisecond)

	buf, contentType, err := coordinator.Download(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, render.ContentTypePDF, contentType)
	require.True(t, bytes.HasPrefix(buf, []byte("%PDF")), "download is a PDF document")
	require.NotEmpty(t, buf)
}
