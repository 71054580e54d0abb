package core

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"attendance.service/internal/core/apperr"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"github.com/rs/zerolog/log"
)

const lockStripes = 64

// notifyTimeout bounds the detached confirmation dispatch so a slow queue
// can never pile up goroutines forever.
const notifyTimeout = 5 * time.Second

// AttendanceService enforces the one-cycle-per-day attendance state machine.
//
// The check-then-insert window in ClockIn is serialized per user with a
// striped lock held across the whole read-decide-write sequence; the store's
// own (user, day) uniqueness constraint backs it up, so even a second
// process racing on the same database gets a clean Conflict instead of a
// duplicate row.
type AttendanceService struct {
	repo       repository.AttendanceRepository
	dispatcher messaging.Dispatcher
	locks      [lockStripes]sync.Mutex
	now        func() time.Time
}

// NewAttendanceService wires up the record store and the notification
// dispatcher.
func NewAttendanceService(repo repository.AttendanceRepository, dispatcher messaging.Dispatcher) *AttendanceService {
	return &AttendanceService{
		repo:       repo,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// ClockIn opens today's attendance cycle for the user. Any existing record
// for today, open or already closed, rejects the request: the system
// supports exactly one cycle per calendar day.
func (s *AttendanceService) ClockIn(ctx context.Context, user *model.User) (*model.AttendanceRecord, error) {
	mu := s.lockFor(user.ID)
	mu.Lock()
	defer mu.Unlock()

	now := s.now()
	dayStart := model.StartOfDay(now)

	existing, err := s.repo.FindForDay(ctx, user.ID, dayStart)
	if err != nil {
		return nil, apperr.Internal("failed to query attendance records", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("already clocked in today")
	}

	rec, err := s.repo.Create(ctx, user.ID, now)
	if err == repository.ErrDuplicateRecord {
		return nil, apperr.Conflict("already clocked in today")
	}
	if err != nil {
		return nil, apperr.Internal("failed to create attendance record", err)
	}

	// Fire-and-forget: the confirmation must never fail the clock-in.
	go s.sendConfirmation(ctx, user, now)

	return rec, nil
}

// ClockOut closes today's open session. Without one it fails with NotFound,
// which also covers a second clock-out on the same day.
func (s *AttendanceService) ClockOut(ctx context.Context, user *model.User) (*model.AttendanceRecord, error) {
	mu := s.lockFor(user.ID)
	mu.Lock()
	defer mu.Unlock()

	now := s.now()
	dayStart := model.StartOfDay(now)

	open, err := s.repo.FindOpenSession(ctx, user.ID, dayStart)
	if err != nil {
		return nil, apperr.Internal("failed to query attendance records", err)
	}
	if open == nil {
		return nil, apperr.NotFound("no active clock-in record found for today")
	}

	rec, err := s.repo.SetClockOut(ctx, open.ID, now)
	if err != nil {
		return nil, apperr.Internal("failed to update attendance record", err)
	}

	return rec, nil
}

func (s *AttendanceService) sendConfirmation(ctx context.Context, user *model.User, clockIn time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.dispatcher.NotifyAttendance(ctx, user, clockIn); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("Failed to dispatch attendance confirmation")
	}
}

func (s *AttendanceService) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockStripes]
}
