package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendance.service/internal/api/handler"
	"attendance.service/internal/core"
	"attendance.service/internal/ports/repository"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(attendance *core.AttendanceService, reports *core.ReportService, users repository.UserRepository) *mux.Router {

	attendanceHandler := handler.AttendanceHandler{
		Service: attendance,
		Users:   users,
	}
	reportHandler := handler.ReportHandler{
		Service: reports,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/attendance/clock-in", attendanceHandler.ClockIn).Methods(http.MethodPost)
	api.HandleFunc("/attendance/clock-out", attendanceHandler.ClockOut).Methods(http.MethodPost)
	api.HandleFunc("/employees", attendanceHandler.ListEmployees).Methods(http.MethodGet)

	api.HandleFunc("/reports/attendance/generate", reportHandler.Generate).Methods(http.MethodPost)
	api.HandleFunc("/reports/status/{jobId}", reportHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/reports/download/{jobId}", reportHandler.Download).Methods(http.MethodGet)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
