package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/worker"
	"github.com/stretchr/testify/require"
)

type noopDispatcher struct{}

func (noopDispatcher) NotifyAttendance(context.Context, *model.User, time.Time) error { return nil }
func (noopDispatcher) NotifyPasswordReset(context.Context, string, string) error      { return nil }

func newTestRouter(t *testing.T) (http.Handler, *repository.InMemoryStore, *core.Ledger) {
	t.Helper()

	store := repository.NewInMemoryStore()
	store.AddUser(model.User{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", EmployeeIdentifier: "EMP-001"})

	attendance := core.NewAttendanceService(store, noopDispatcher{})
	ledger := core.NewLedger(time.Hour)
	reports := core.NewReportService(ledger, worker.NewQueue(8))

	return NewRouter(attendance, reports, store), store, ledger
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestClockInAndOutLifecycle(t *testing.T) {
	router, _, _ := newTestRouter(t)
	payload := map[string]string{"email": "alice@example.com"}

	rr := doJSON(t, router, http.MethodPost, "/api/v1/attendance/clock-in", payload)
	require.Equal(t, http.StatusCreated, rr.Code)

	var rec model.AttendanceRecord
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&rec))
	require.NotEmpty(t, rec.ID)
	require.Nil(t, rec.ClockOutTime)

	rr = doJSON(t, router, http.MethodPost, "/api/v1/attendance/clock-in", payload)
	require.Equal(t, http.StatusConflict, rr.Code, "second clock-in on the same day")

	rr = doJSON(t, router, http.MethodPost, "/api/v1/attendance/clock-out", payload)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&rec))
	require.NotNil(t, rec.ClockOutTime)

	rr = doJSON(t, router, http.MethodPost, "/api/v1/attendance/clock-out", payload)
	require.Equal(t, http.StatusNotFound, rr.Code, "no open session remains")
}

func TestClockInValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/attendance/clock-in", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/v1/attendance/clock-in", map[string]string{"email": "nobody@example.com"})
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportEndpoints(t *testing.T) {
	router, _, ledger := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/reports/attendance/generate?type=pdf&start=2026-03-02&end=2026-03-02", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)

	var started struct {
		JobID string `json:"jobId"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&started))
	require.NotEmpty(t, started.JobID)

	// No worker pool is running here, so the job stays PENDING.
	rr = doJSON(t, router, http.MethodGet, "/api/v1/reports/status/"+started.JobID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var status struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	require.Equal(t, string(model.StatusReportPending), status.Status)

	rr = doJSON(t, router, http.MethodGet, "/api/v1/reports/download/"+started.JobID, nil)
	require.Equal(t, http.StatusNotFound, rr.Code, "download before completion")

	require.NoError(t, ledger.MarkProcessing(started.JobID))
	require.NoError(t, ledger.Complete(started.JobID, []byte("%PDF-1.4 fake"), "application/pdf"))

	rr = doJSON(t, router, http.MethodGet, "/api/v1/reports/download/"+started.JobID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	require.NotEmpty(t, rr.Body.Bytes())
}

func TestReportEndpointValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/reports/attendance/generate?type=docx&start=2026-03-02&end=2026-03-02", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/v1/reports/attendance/generate?type=pdf&start=yesterday&end=2026-03-02", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/v1/reports/status/unknown-job", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/v1/reports/download/unknown-job", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListEmployees(t *testing.T) {
	router, store, _ := newTestRouter(t)
	store.AddUser(model.User{FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", EmployeeIdentifier: "EMP-002"})

	rr := doJSON(t, router, http.MethodGet, "/api/v1/employees?page=1&limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Items []model.User `json:"items"`
		Total int          `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	require.Equal(t, 2, body.Total)
}
