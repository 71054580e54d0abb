package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"attendance.service/internal/core/apperr"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"github.com/stretchr/testify/require"
)

// recordingDispatcher captures notification calls so tests can wait for the
// detached send.
type recordingDispatcher struct {
	mu    sync.Mutex
	sent  []string
	calls chan struct{}
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{calls: make(chan struct{}, 16)}
}

func (d *recordingDispatcher) NotifyAttendance(_ context.Context, user *model.User, _ time.Time) error {
	d.mu.Lock()
	d.sent = append(d.sent, user.Email)
	d.mu.Unlock()
	d.calls <- struct{}{}
	return nil
}

func (d *recordingDispatcher) NotifyPasswordReset(context.Context, string, string) error {
	return nil
}

func testUser() *model.User {
	return &model.User{
		ID:                 "user-alice",
		FirstName:          "Alice",
		LastName:           "Smith",
		Email:              "alice@example.com",
		EmployeeIdentifier: "EMP-001",
	}
}

func newTestService(store *repository.InMemoryStore, at time.Time) (*AttendanceService, *recordingDispatcher) {
	dispatcher := newRecordingDispatcher()
	svc := NewAttendanceService(store, dispatcher)
	svc.now = func() time.Time { return at }
	return svc, dispatcher
}

func TestClockInCreatesOpenSession(t *testing.T) {
	store := repository.NewInMemoryStore()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	svc, dispatcher := newTestService(store, at)

	rec, err := svc.ClockIn(context.Background(), testUser())
	require.NoError(t, err)
	require.Equal(t, "user-alice", rec.UserID)
	require.True(t, rec.ClockInTime.Equal(at))
	require.Nil(t, rec.ClockOutTime)

	select {
	case <-dispatcher.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was never dispatched")
	}
	require.Equal(t, []string{"alice@example.com"}, dispatcher.sent)
}

func TestClockInTwiceSameDayConflicts(t *testing.T) {
	store := repository.NewInMemoryStore()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	svc, _ := newTestService(store, at)

	_, err := svc.ClockIn(context.Background(), testUser())
	require.NoError(t, err)

	_, err = svc.ClockIn(context.Background(), testUser())
	require.True(t, apperr.IsConflict(err))
	require.Equal(t, 1, store.RecordCount())
}

func TestClockInAfterClockOutStillConflicts(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc, _ := newTestService(store, time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))

	_, err := svc.ClockIn(context.Background(), testUser())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local) }
	_, err = svc.ClockOut(context.Background(), testUser())
	require.NoError(t, err)

	// One attendance cycle per calendar day: a closed record still blocks.
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 18, 0, 0, 0, time.Local) }
	_, err = svc.ClockIn(context.Background(), testUser())
	require.True(t, apperr.IsConflict(err))
}

func TestClockOutWithoutOpenSessionNotFound(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc, _ := newTestService(store, time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local))

	_, err := svc.ClockOut(context.Background(), testUser())
	require.True(t, apperr.IsNotFound(err))
}

func TestClockOutClosesSessionExactlyOnce(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc, _ := newTestService(store, time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))

	_, err := svc.ClockIn(context.Background(), testUser())
	require.NoError(t, err)

	out := time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return out }

	rec, err := svc.ClockOut(context.Background(), testUser())
	require.NoError(t, err)
	require.NotNil(t, rec.ClockOutTime)
	require.True(t, rec.ClockOutTime.Equal(out))

	_, err = svc.ClockOut(context.Background(), testUser())
	require.True(t, apperr.IsNotFound(err))
}

func TestConcurrentClockInYieldsSingleRecord(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc, _ := newTestService(store, time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ClockIn(context.Background(), testUser())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperr.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, successes)
	require.Equal(t, attempts-1, conflicts)
	require.Equal(t, 1, store.RecordCount())
}
