package handler

import (
	"net/http"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	Service *core.ReportService
}

// Generate accepts a report request and returns the job id immediately; the
// document is produced asynchronously by the worker pool.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, ok := parseFormat(q.Get("type"))
	if !ok {
		http.Error(w, "type must be 'pdf' or 'excel'", http.StatusBadRequest)
		return
	}

	start, err := time.ParseInLocation(dateLayout, q.Get("start"), time.Local)
	if err != nil {
		http.Error(w, "start must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := time.ParseInLocation(dateLayout, q.Get("end"), time.Local)
	if err != nil {
		http.Error(w, "end must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	jobID, err := h.Service.Start(r.Context(), format, start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}

func (h *ReportHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	status, err := h.Service.Status(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	buf, contentType, err := h.Service.Download(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=attendance-report")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}

func parseFormat(raw string) (model.ReportFormat, bool) {
	switch model.ReportFormat(raw) {
	case model.FormatPDF:
		return model.FormatPDF, true
	case model.FormatExcel:
		return model.FormatExcel, true
	default:
		return "", false
	}
}
