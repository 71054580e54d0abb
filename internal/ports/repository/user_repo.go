package repository

import (
	"context"
	"database/sql"

	"attendance.service/internal/core/model"
)

// PostgresUserRepository is the concrete UserRepository for PostgreSQL.
type PostgresUserRepository struct {
	DB *sql.DB
}

// NewPostgresUserRepository creates a new instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `id, first_name, last_name, email, employee_identifier, phone_number`

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

// FindAndCount returns one 1-based page of users ordered by last name, plus
// the total user count.
func (r *PostgresUserRepository) FindAndCount(ctx context.Context, page, limit int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users
              ORDER BY last_name, first_name
              LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var phone sql.NullString
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.EmployeeIdentifier, &phone); err != nil {
			return nil, 0, err
		}
		u.PhoneNumber = phone.String
		users = append(users, u)
	}

	return users, total, rows.Err()
}

func (r *PostgresUserRepository) scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	var phone sql.NullString

	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.EmployeeIdentifier, &phone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.PhoneNumber = phone.String
	return u, nil
}
