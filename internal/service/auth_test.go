package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/sms/internal/crypto"
	"github.com/atinyakov/sms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockAdminStore struct {
	VerifyPasswordFunc func(ctx context.Context, email, digest string) (bool, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*models.Admin, error)
	calls              int
}

func (m *mockAdminStore) VerifyPassword(ctx context.Context, email, digest string) (bool, error) {
	m.calls++
	return m.VerifyPasswordFunc(ctx, email, digest)
}
func (m *mockAdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.calls++
	return m.FindByEmailFunc(ctx, email)
}

type mockStudentStore struct {
	VerifyPasswordFunc func(ctx context.Context, email, digest string) (bool, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*models.Student, error)
	calls              int
}

func (m *mockStudentStore) VerifyPassword(ctx context.Context, email, digest string) (bool, error) {
	m.calls++
	return m.VerifyPasswordFunc(ctx, email, digest)
}
func (m *mockStudentStore) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	m.calls++
	return m.FindByEmailFunc(ctx, email)
}

func noMatch(context.Context, string, string) (bool, error) { return false, nil }

func TestAuthenticate_EmptyInput(t *testing.T) {
	admins := &mockAdminStore{}
	students := &mockStudentStore{}
	svc := NewAuthService(admins, students, nil)

	for _, in := range [][2]string{{"", "x"}, {"a@b.com", ""}, {"   ", "x"}} {
		_, err := svc.Authenticate(context.Background(), in[0], in[1])
		assert.ErrorIs(t, err, ErrEmptyInput, "Authenticate(%q, %q)", in[0], in[1])
	}
	assert.Zero(t, admins.calls, "no store access on empty input")
	assert.Zero(t, students.calls)
}

func TestAuthenticate_Admin(t *testing.T) {
	admins := &mockAdminStore{
		VerifyPasswordFunc: func(_ context.Context, email, digest string) (bool, error) {
			if email != "admin@sms.com" {
				t.Errorf("VerifyPassword received email = %q; want %q", email, "admin@sms.com")
			}
			return digest == crypto.HashPassword("admin"), nil
		},
		FindByEmailFunc: func(context.Context, string) (*models.Admin, error) {
			return &models.Admin{ID: 1, FirstName: "Admin", LastName: "User", Email: "admin@sms.com"}, nil
		},
	}
	students := &mockStudentStore{}
	svc := NewAuthService(admins, students, zap.NewNop())

	u, err := svc.Authenticate(context.Background(), " admin@sms.com ", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: 1, Role: models.RoleAdmin, FirstName: "Admin", LastName: "User", Email: "admin@sms.com"}, u)
	assert.Zero(t, students.calls, "student store is not consulted after an admin match")
}

func TestAuthenticate_Student(t *testing.T) {
	admins := &mockAdminStore{VerifyPasswordFunc: noMatch}
	students := &mockStudentStore{
		VerifyPasswordFunc: func(context.Context, string, string) (bool, error) { return true, nil },
		FindByEmailFunc: func(_ context.Context, email string) (*models.Student, error) {
			return &models.Student{ID: 12, FirstName: "Jane", LastName: "Doe", Email: email}, nil
		},
	}
	svc := NewAuthService(admins, students, nil)

	u, err := svc.Authenticate(context.Background(), "jane@sms.com", "JaneDoe")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.Equal(t, 12, u.ID)
	assert.Equal(t, "Jane Doe", u.FullName())
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewAuthService(
		&mockAdminStore{VerifyPasswordFunc: noMatch},
		&mockStudentStore{VerifyPasswordFunc: noMatch},
		zap.New(core),
	)

	_, err := svc.Authenticate(context.Background(), "ghost@sms.com", "secret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Invalid Login Details!", authErr.Message())

	for _, entry := range logs.All() {
		for _, f := range entry.Context {
			assert.NotContains(t, f.String, "secret-pass", "password must never be logged")
		}
	}
}

func TestAuthenticate_RecordVanished(t *testing.T) {
	svc := NewAuthService(
		&mockAdminStore{
			VerifyPasswordFunc: func(context.Context, string, string) (bool, error) { return true, nil },
			FindByEmailFunc:    func(context.Context, string) (*models.Admin, error) { return nil, nil },
		},
		&mockStudentStore{},
		nil,
	)

	_, err := svc.Authenticate(context.Background(), "admin@sms.com", "admin")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_StorageFailure(t *testing.T) {
	dbErr := errors.New("connection refused")

	cases := []struct {
		name     string
		admins   *mockAdminStore
		students *mockStudentStore
	}{
		{
			name: "admin verify",
			admins: &mockAdminStore{VerifyPasswordFunc: func(context.Context, string, string) (bool, error) {
				return false, dbErr
			}},
			students: &mockStudentStore{},
		},
		{
			name: "admin find",
			admins: &mockAdminStore{
				VerifyPasswordFunc: func(context.Context, string, string) (bool, error) { return true, nil },
				FindByEmailFunc:    func(context.Context, string) (*models.Admin, error) { return nil, dbErr },
			},
			students: &mockStudentStore{},
		},
		{
			name:   "student verify",
			admins: &mockAdminStore{VerifyPasswordFunc: noMatch},
			students: &mockStudentStore{VerifyPasswordFunc: func(context.Context, string, string) (bool, error) {
				return false, dbErr
			}},
		},
		{
			name:   "student find",
			admins: &mockAdminStore{VerifyPasswordFunc: noMatch},
			students: &mockStudentStore{
				VerifyPasswordFunc: func(context.Context, string, string) (bool, error) { return true, nil },
				FindByEmailFunc:    func(context.Context, string) (*models.Student, error) { return nil, dbErr },
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			svc := NewAuthService(tc.admins, tc.students, zap.New(core))

			_, err := svc.Authenticate(context.Background(), "a@b.com", "pw")
			require.ErrorIs(t, err, ErrStorageFailure)
			assert.ErrorIs(t, err, dbErr, "cause is kept")
			assert.Equal(t, 1, logs.FilterMessage("identity store failed").Len())
		})
	}
}

func TestAuthenticate_CustomHasher(t *testing.T) {
	var seen string
	svc := NewAuthService(
		&mockAdminStore{VerifyPasswordFunc: func(_ context.Context, _, digest string) (bool, error) {
			seen = digest
			return false, nil
		}},
		&mockStudentStore{VerifyPasswordFunc: noMatch},
		nil,
		WithHasher(func(p string) string { return "h:" + p }),
	)

	_, _ = svc.Authenticate(context.Background(), "a@b.com", "pw")
	assert.Equal(t, "h:pw", seen)
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Kind: KindStorageFailure, Err: errors.New("boom")}
	assert.Equal(t, "authenticate: storage failure: boom", err.Error())
	assert.Equal(t, "Login error occurred! Please retry.", err.Message())
	assert.Equal(t, "Enter password and username first", ErrEmptyInput.Message())
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestAuthenticate_ReturnsFreshErrors(t *testing.T) {
	svc := NewAuthService(
		&mockAdminStore{VerifyPasswordFunc: noMatch},
		&mockStudentStore{VerifyPasswordFunc: noMatch},
		nil,
	)

	_, err := svc.Authenticate(context.Background(), "", "")
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.NotSame(t, ErrEmptyInput, err)

	_, err = svc.Authenticate(context.Background(), "a@b.com", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotSame(t, ErrInvalidCredentials, err)

	err.(*AuthError).Kind = KindStorageFailure
	assert.Equal(t, KindInvalidCredentials, ErrInvalidCredentials.Kind, "sentinel is unaffected")
}
