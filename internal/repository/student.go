package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/sms/internal/models"
	"github.com/lib/pq"
)

const studentColumns = `id, first_name, last_name, email, date_of_birth, join_date`

// PostgresStudentRepository stores student accounts in the students table.
type PostgresStudentRepository struct {
	DB *sql.DB
}

// NewPostgresStudentRepository creates a new PostgresStudentRepository with the given database connection.
func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{DB: db}
}

// AddStudent inserts a new student with the given password digest and returns its ID.
func (r *PostgresStudentRepository) AddStudent(ctx context.Context, s models.Student, digest string) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO students (first_name, last_name, email, password, date_of_birth, join_date)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, s.FirstName, s.LastName, s.Email, digest, s.DateOfBirth, s.JoinDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("AddStudent: %w", err)
	}
	return id, nil
}

// FindByID returns the student with the given ID, or nil if there is none.
func (r *PostgresStudentRepository) FindByID(ctx context.Context, id int) (*models.Student, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return scanStudent(row, "FindByID")
}

// FindByEmail returns the student with the given email, or nil if there is none.
func (r *PostgresStudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE email = $1`, email)
	return scanStudent(row, "FindByEmail")
}

// FindAll returns every student ordered by ID.
func (r *PostgresStudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("FindAll: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth, &s.JoinDate); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Update overwrites every column of a student, including the password
// digest, and returns the number of rows changed.
func (r *PostgresStudentRepository) Update(ctx context.Context, s models.Student, digest string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE students SET first_name = $1, last_name = $2, email = $3, password = $4,
			date_of_birth = $5, join_date = $6
		WHERE id = $7
	`, s.FirstName, s.LastName, s.Email, digest, s.DateOfBirth, s.JoinDate, s.ID)
	if err != nil {
		return 0, fmt.Errorf("Update: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes the students with the given IDs and returns the number of rows removed.
func (r *PostgresStudentRepository) Delete(ctx context.Context, ids ...int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM students WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("Delete: %w", err)
	}
	return res.RowsAffected()
}

// VerifyPassword reports whether digest matches the stored password digest of
// the student with the given email. An unknown email is not an error.
func (r *PostgresStudentRepository) VerifyPassword(ctx context.Context, email, digest string) (bool, error) {
	return verifyPassword(ctx, r.DB, `SELECT password FROM students WHERE email = $1`, email, digest)
}

func scanStudent(row *sql.Row, op string) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth, &s.JoinDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
