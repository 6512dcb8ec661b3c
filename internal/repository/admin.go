// Package repository provides PostgreSQL persistence for accounts, courses
// and grades.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/sms/internal/crypto"
	"github.com/atinyakov/sms/internal/models"
)

// PostgresAdminRepository stores staff accounts in the admins table.
type PostgresAdminRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAdminRepository creates a new PostgresAdminRepository with the given database connection.
func NewPostgresAdminRepository(db *sql.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{DB: db}
}

// AddAdmin inserts a new admin with the given password digest and returns its ID.
func (r *PostgresAdminRepository) AddAdmin(ctx context.Context, admin models.Admin, digest string) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO admins (first_name, last_name, email, password) VALUES ($1, $2, $3, $4) RETURNING id
	`, admin.FirstName, admin.LastName, admin.Email, digest).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("AddAdmin: %w", err)
	}
	return id, nil
}

// FindByID returns the admin with the given ID, or nil if there is none.
func (r *PostgresAdminRepository) FindByID(ctx context.Context, id int) (*models.Admin, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id, first_name, last_name, email FROM admins WHERE id = $1`, id)
	return scanAdmin(row, "FindByID")
}

// FindByEmail returns the admin with the given email, or nil if there is none.
func (r *PostgresAdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id, first_name, last_name, email FROM admins WHERE email = $1`, email)
	return scanAdmin(row, "FindByEmail")
}

// FindAll returns every admin ordered by ID.
func (r *PostgresAdminRepository) FindAll(ctx context.Context) ([]models.Admin, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, first_name, last_name, email FROM admins ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("FindAll: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Update overwrites the name, email and password digest of an admin and
// returns the number of rows changed.
func (r *PostgresAdminRepository) Update(ctx context.Context, admin models.Admin, digest string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE admins SET first_name = $1, last_name = $2, email = $3, password = $4 WHERE id = $5
	`, admin.FirstName, admin.LastName, admin.Email, digest, admin.ID)
	if err != nil {
		return 0, fmt.Errorf("Update: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes the admin with the given ID and returns the number of rows removed.
func (r *PostgresAdminRepository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("Delete: %w", err)
	}
	return res.RowsAffected()
}

// VerifyPassword reports whether digest matches the stored password digest of
// the admin with the given email. An unknown email is not an error.
func (r *PostgresAdminRepository) VerifyPassword(ctx context.Context, email, digest string) (bool, error) {
	return verifyPassword(ctx, r.DB, `SELECT password FROM admins WHERE email = $1`, email, digest)
}

func scanAdmin(row *sql.Row, op string) (*models.Admin, error) {
	var a models.Admin
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

// verifyPassword loads the stored digest with query and compares it to digest.
func verifyPassword(ctx context.Context, db *sql.DB, query, email, digest string) (bool, error) {
	var stored string
	err := db.QueryRowContext(ctx, query, email).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("VerifyPassword: %w", err)
	}
	return crypto.EqualDigest(stored, digest), nil
}
