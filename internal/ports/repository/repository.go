package repository

import (
	"context"
	"errors"
	"time"

	"attendance.service/internal/core/model"
)

// ErrDuplicateRecord is returned by Create when a record already exists for
// the same user and calendar day. The attendance service translates it into
// a Conflict for the caller.
var ErrDuplicateRecord = errors.New("attendance record already exists for this day")

// AttendanceRepository is the record-store contract for attendance records.
// Lookups scoped to a day take the day-start instant computed by the caller;
// ListRange takes a half-open [from, to) interval.
type AttendanceRepository interface {
	// FindForDay returns any record (open or closed) whose clock-in falls on
	// or after dayStart, or nil when none exists.
	FindForDay(ctx context.Context, userID string, dayStart time.Time) (*model.AttendanceRecord, error)
	// FindOpenSession returns the record for today that has no clock-out yet,
	// or nil when none exists.
	FindOpenSession(ctx context.Context, userID string, dayStart time.Time) (*model.AttendanceRecord, error)
	Create(ctx context.Context, userID string, clockIn time.Time) (*model.AttendanceRecord, error)
	SetClockOut(ctx context.Context, id string, clockOut time.Time) (*model.AttendanceRecord, error)
	// ListRange returns records with clock-in in [from, to) joined with their
	// owning user's display fields, ordered by clock-in ascending. Entries
	// whose user was deleted carry a nil User.
	ListRange(ctx context.Context, from, to time.Time) ([]model.AttendanceEntry, error)
}

// UserRepository is the record-store contract for user lookups consumed by
// the delivery layer and the report pipeline.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindAndCount returns one page of users plus the total count. Pages are
	// 1-based.
	FindAndCount(ctx context.Context, page, limit int) ([]model.User, int, error)
}
