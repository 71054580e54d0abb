package messaging

import "time"

// Event type values carried as the EventType message attribute so the notify
// worker can pick the right payload shape.
const (
	EventTypeAttendanceConfirmation = "ATTENDANCE_CONFIRMATION"
	EventTypePasswordReset          = "PASSWORD_RESET"
)

// AttendanceConfirmationEvent is the JSON payload for a clock-in
// confirmation message.
type AttendanceConfirmationEvent struct {
	UserEmail   string    `json:"userEmail"`
	UserName    string    `json:"userName"`
	ClockInTime time.Time `json:"clockInTime"`
}

// PasswordResetEvent is the JSON payload for a password reset message.
type PasswordResetEvent struct {
	UserEmail string `json:"userEmail"`
	ResetLink string `json:"resetLink"`
}
