package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"attendance.service/internal/core/model"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const pgUniqueViolation = "23505"

// PostgresAttendanceRepository is the concrete AttendanceRepository for a
// PostgreSQL database. The attendance_records table carries a unique index
// on (user_id, day of clock_in_time), so a racing duplicate insert surfaces
// as ErrDuplicateRecord instead of a silent second row.
type PostgresAttendanceRepository struct {
	DB *sql.DB
}

// NewPostgresAttendanceRepository creates a new instance.
func NewPostgresAttendanceRepository(db *sql.DB) *PostgresAttendanceRepository {
	return &PostgresAttendanceRepository{DB: db}
}

// FindForDay returns any record for the user with clock-in >= dayStart.
func (r *PostgresAttendanceRepository) FindForDay(ctx context.Context, userID string, dayStart time.Time) (*model.AttendanceRecord, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	query := `SELECT id, user_id, clock_in_time, clock_out_time
              FROM attendance_records
              WHERE user_id = $1 AND clock_in_time >= $2
              ORDER BY clock_in_time DESC
              LIMIT 1`

	return r.scanRecord(r.DB.QueryRowContext(ctx, query, userID, dayStart))
}

// FindOpenSession returns today's record that has no clock-out yet.
func (r *PostgresAttendanceRepository) FindOpenSession(ctx context.Context, userID string, dayStart time.Time) (*model.AttendanceRecord, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	query := `SELECT id, user_id, clock_in_time, clock_out_time
              FROM attendance_records
              WHERE user_id = $1 AND clock_in_time >= $2 AND clock_out_time IS NULL
              ORDER BY clock_in_time DESC
              LIMIT 1`

	return r.scanRecord(r.DB.QueryRowContext(ctx, query, userID, dayStart))
}

// Create inserts a new open session for the user.
func (r *PostgresAttendanceRepository) Create(ctx context.Context, userID string, clockIn time.Time) (*model.AttendanceRecord, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	rec := &model.AttendanceRecord{UserID: userID, ClockInTime: clockIn}
	query := `INSERT INTO attendance_records (user_id, clock_in_time)
              VALUES ($1, $2) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, userID, clockIn).Scan(&rec.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateRecord
		}
		return nil, err
	}

	return rec, nil
}

// SetClockOut closes the session and returns the updated record.
func (r *PostgresAttendanceRepository) SetClockOut(ctx context.Context, id string, clockOut time.Time) (*model.AttendanceRecord, error) {
	query := `UPDATE attendance_records
              SET clock_out_time = $1
              WHERE id = $2
              RETURNING id, user_id, clock_in_time, clock_out_time`

	return r.scanRecord(r.DB.QueryRowContext(ctx, query, clockOut, id))
}

// ListRange fetches records with clock-in in [from, to) joined with user
// display fields, ordered ascending. The join is LEFT so records whose user
// was since deleted still come back, with nil user fields.
func (r *PostgresAttendanceRepository) ListRange(ctx context.Context, from, to time.Time) ([]model.AttendanceEntry, error) {
	query := `SELECT a.id, a.user_id, a.clock_in_time, a.clock_out_time,
                     u.id, u.first_name, u.last_name, u.email, u.employee_identifier
              FROM attendance_records a
              LEFT JOIN users u ON u.id = a.user_id
              WHERE a.clock_in_time >= $1 AND a.clock_in_time < $2
              ORDER BY a.clock_in_time ASC`

	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AttendanceEntry
	for rows.Next() {
		var entry model.AttendanceEntry
		var clockOut sql.NullTime
		var userID, firstName, lastName, email, identifier sql.NullString

		err := rows.Scan(
			&entry.Record.ID, &entry.Record.UserID, &entry.Record.ClockInTime, &clockOut,
			&userID, &firstName, &lastName, &email, &identifier,
		)
		if err != nil {
			return nil, err
		}

		if clockOut.Valid {
			t := clockOut.Time
			entry.Record.ClockOutTime = &t
		}
		if userID.Valid {
			entry.User = &model.User{
				ID:                 userID.String,
				FirstName:          firstName.String,
				LastName:           lastName.String,
				Email:              email.String,
				EmployeeIdentifier: identifier.String,
			}
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *PostgresAttendanceRepository) scanRecord(row *sql.Row) (*model.AttendanceRecord, error) {
	rec := &model.AttendanceRecord{}
	var clockOut sql.NullTime

	err := row.Scan(&rec.ID, &rec.UserID, &rec.ClockInTime, &clockOut)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if clockOut.Valid {
		t := clockOut.Time
		rec.ClockOutTime = &t
	}
	return rec, nil
}
