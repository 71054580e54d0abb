package model

import (
	"time"
)

// ReportStatus defines the state of a report generation job in the ledger.
type ReportStatus string

const (
	StatusReportPending    ReportStatus = "PENDING"
	StatusReportProcessing ReportStatus = "PROCESSING"
	StatusReportCompleted  ReportStatus = "COMPLETED"
	StatusReportFailed     ReportStatus = "FAILED"
)

// ReportFormat selects the output document type for a report.
type ReportFormat string

const (
	FormatPDF   ReportFormat = "pdf"
	FormatExcel ReportFormat = "excel"
)

type User struct {
	ID                 string `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	EmployeeIdentifier string `json:"employeeIdentifier"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
}

// AttendanceRecord is one clock-in/clock-out cycle for a user. ClockOutTime
// stays nil while the session is open.
type AttendanceRecord struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	ClockInTime  time.Time  `json:"clockInTime"`
	ClockOutTime *time.Time `json:"clockOutTime,omitempty"`
}

// Day returns the calendar day the record belongs to, derived from the
// clock-in timestamp in its own location.
func (r *AttendanceRecord) Day() time.Time {
	return StartOfDay(r.ClockInTime)
}

// StartOfDay truncates t to local midnight. Both clock-in and clock-out use
// this boundary so an open session spanning midnight stays findable until the
// day rolls over.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ReportJob is a ledger entry for one report request. Result and ContentType
// are set only once the job is COMPLETED; FailureReason only once FAILED.
type ReportJob struct {
	ID            string       `json:"id"`
	Status        ReportStatus `json:"status"`
	Format        ReportFormat `json:"format"`
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	Result        []byte       `json:"-"`
	ContentType   string       `json:"contentType,omitempty"`
	FailureReason string       `json:"failureReason,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	FinishedAt    time.Time    `json:"finishedAt,omitzero"`
}

// Finished reports whether the job reached a terminal status.
func (j *ReportJob) Finished() bool {
	return j.Status == StatusReportCompleted || j.Status == StatusReportFailed
}

// ReportWorkItem is the message carried on the report queue from the
// coordinator to the worker pool.
type ReportWorkItem struct {
	JobID     string       `json:"jobId"`
	Format    ReportFormat `json:"format"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
}

// AttendanceEntry is an attendance record joined with its owning user's
// display fields. User is nil when the user was deleted after the record
// was created.
type AttendanceEntry struct {
	Record AttendanceRecord
	User   *User
}

// AttendanceRow is the flattened, display-ready projection fed to the
// document renderer. Never persisted.
type AttendanceRow struct {
	Date       string
	Employee   string
	Email      string
	Identifier string
	ClockIn    string
	ClockOut   string
}
