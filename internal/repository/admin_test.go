package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/sms/internal/crypto"
	"github.com/atinyakov/sms/internal/models"
)

func setupAdminMock(t *testing.T) (*PostgresAdminRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresAdminRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

const selectAdminByEmail = `SELECT id, first_name, last_name, email FROM admins WHERE email = $1`

func TestAdminVerifyPassword_Match(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	digest := crypto.HashPassword("admin")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT password FROM admins WHERE email = $1`)).
		WithArgs("admin@sms.com").
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(digest))

	ok, err := repo.VerifyPassword(context.Background(), "admin@sms.com", digest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected password to match")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAdminVerifyPassword_Mismatch(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT password FROM admins WHERE email = $1`)).
		WithArgs("admin@sms.com").
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(crypto.HashPassword("admin")))

	ok, err := repo.VerifyPassword(context.Background(), "admin@sms.com", crypto.HashPassword("nope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected password mismatch")
	}
}

func TestAdminVerifyPassword_UnknownEmail(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT password FROM admins WHERE email = $1`)).
		WithArgs("ghost@sms.com").
		WillReturnRows(sqlmock.NewRows([]string{"password"}))

	ok, err := repo.VerifyPassword(context.Background(), "ghost@sms.com", "x")
	if err != nil {
		t.Fatalf("unknown email must not be an error, got %v", err)
	}
	if ok {
		t.Errorf("expected false for unknown email")
	}
}

func TestAdminVerifyPassword_Error(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT password FROM admins WHERE email = $1`)).
		WithArgs("admin@sms.com").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.VerifyPassword(context.Background(), "admin@sms.com", "x")
	if err == nil || !regexp.MustCompile(`VerifyPassword`).MatchString(err.Error()) {
		t.Errorf("expected VerifyPassword error, got %v", err)
	}
}

func TestAdminFindByEmail(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectAdminByEmail)).
		WithArgs("admin@sms.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email"}).
			AddRow(1, "Admin", "User", "admin@sms.com"))

	got, err := repo.FindByEmail(context.Background(), "admin@sms.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.Admin{ID: 1, FirstName: "Admin", LastName: "User", Email: "admin@sms.com"}
	if got == nil || *got != want {
		t.Errorf("FindByEmail = %+v; want %+v", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAdminFindByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectAdminByEmail)).
		WithArgs("ghost@sms.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email"}))

	got, err := repo.FindByEmail(context.Background(), "ghost@sms.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil admin, got %+v", got)
	}
}

func TestAdminAddAdmin(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	admin := models.Admin{FirstName: "Grace", LastName: "Hopper", Email: "grace@sms.com"}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO admins (first_name, last_name, email, password)`)).
		WithArgs("Grace", "Hopper", "grace@sms.com", "digest").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	id, err := repo.AddAdmin(context.Background(), admin, "digest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 4 {
		t.Errorf("id = %d; want 4", id)
	}
}

func TestAdminFindAll(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, first_name, last_name, email FROM admins ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email"}).
			AddRow(1, "Admin", "User", "admin@sms.com").
			AddRow(2, "Grace", "Hopper", "grace@sms.com"))

	admins, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(admins) != 2 || admins[1].Email != "grace@sms.com" {
		t.Errorf("unexpected admins: %+v", admins)
	}
}

func TestAdminUpdateAndDelete(t *testing.T) {
	repo, mock, cleanup := setupAdminMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE admins SET first_name = $1, last_name = $2, email = $3, password = $4 WHERE id = $5`)).
		WithArgs("A", "B", "ab@sms.com", crypto.HashPassword("pw"), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM admins WHERE id = $1`)).
		WithArgs(2).
		WillReturnError(errors.New("fk violation"))

	n, err := repo.Update(context.Background(), models.Admin{ID: 2, FirstName: "A", LastName: "B", Email: "ab@sms.com"}, crypto.HashPassword("pw"))
	if err != nil || n != 1 {
		t.Fatalf("Update = %d, %v; want 1, nil", n, err)
	}
	if _, err := repo.Delete(context.Background(), 2); err == nil {
		t.Errorf("expected Delete error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
