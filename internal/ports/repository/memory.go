package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"attendance.service/internal/core/model"
)

// InMemoryStore implements both AttendanceRepository and UserRepository with
// a mutex-guarded map. It backs unit tests and local runs without Postgres,
// and enforces the same per-(user, day) uniqueness the database index does.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int
	records map[string]*model.AttendanceRecord
	users   map[string]*model.User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*model.AttendanceRecord),
		users:   make(map[string]*model.User),
	}
}

// AddUser seeds a user. Returns the stored copy.
func (s *InMemoryStore) AddUser(u model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		s.nextID++
		u.ID = "user-" + strconv.Itoa(s.nextID)
	}
	s.users[u.ID] = &u
	return &u
}

// RemoveUser deletes a user, leaving their attendance records orphaned the
// way a cascade-less hard delete would.
func (s *InMemoryStore) RemoveUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *InMemoryStore) FindForDay(_ context.Context, userID string, dayStart time.Time) (*model.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(userID, dayStart, false), nil
}

func (s *InMemoryStore) FindOpenSession(_ context.Context, userID string, dayStart time.Time) (*model.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(userID, dayStart, true), nil
}

func (s *InMemoryStore) Create(_ context.Context, userID string, clockIn time.Time) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(userID, model.StartOfDay(clockIn), false) != nil {
		return nil, ErrDuplicateRecord
	}

	s.nextID++
	rec := &model.AttendanceRecord{
		ID:          "att-" + strconv.Itoa(s.nextID),
		UserID:      userID,
		ClockInTime: clockIn,
	}
	s.records[rec.ID] = rec

	copy := *rec
	return &copy, nil
}

func (s *InMemoryStore) SetClockOut(_ context.Context, id string, clockOut time.Time) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	t := clockOut
	rec.ClockOutTime = &t

	copy := *rec
	return &copy, nil
}

func (s *InMemoryStore) ListRange(_ context.Context, from, to time.Time) ([]model.AttendanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []model.AttendanceEntry
	for _, rec := range s.records {
		if rec.ClockInTime.Before(from) || !rec.ClockInTime.Before(to) {
			continue
		}
		entry := model.AttendanceEntry{Record: *rec}
		if u, ok := s.users[rec.UserID]; ok {
			uc := *u
			entry.User = &uc
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Record.ClockInTime.Before(entries[j].Record.ClockInTime)
	})
	return entries, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		uc := *u
		return &uc, nil
	}
	return nil, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			uc := *u
			return &uc, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) FindAndCount(_ context.Context, page, limit int) ([]model.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	all := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		return all[i].FirstName < all[j].FirstName
	})

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// RecordCount reports how many attendance records exist. Test helper.
func (s *InMemoryStore) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// findLocked expects at least a read lock to be held.
func (s *InMemoryStore) findLocked(userID string, dayStart time.Time, openOnly bool) *model.AttendanceRecord {
	var latest *model.AttendanceRecord
	for _, rec := range s.records {
		if rec.UserID != userID || rec.ClockInTime.Before(dayStart) {
			continue
		}
		if openOnly && rec.ClockOutTime != nil {
			continue
		}
		if latest == nil || rec.ClockInTime.After(latest.ClockInTime) {
			latest = rec
		}
	}
	if latest == nil {
		return nil
	}
	copy := *latest
	return &copy
}
