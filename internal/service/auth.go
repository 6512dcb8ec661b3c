// Package service provides the business logic behind the application's
// screens: logging in, registering students and browsing courses. It
// delegates persistence to repository interfaces.
package service

import (
	"context"
	"strings"

	"github.com/atinyakov/sms/internal/crypto"
	"github.com/atinyakov/sms/internal/models"
	"go.uber.org/zap"
)

// AdminStore defines the admin lookups needed to authenticate staff.
type AdminStore interface {
	// VerifyPassword reports whether digest matches the admin's stored digest.
	VerifyPassword(ctx context.Context, email, digest string) (bool, error)
	// FindByEmail returns the admin with the given email, or nil.
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// StudentStore defines the student lookups needed to authenticate students.
type StudentStore interface {
	// VerifyPassword reports whether digest matches the student's stored digest.
	VerifyPassword(ctx context.Context, email, digest string) (bool, error)
	// FindByEmail returns the student with the given email, or nil.
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

// Hasher turns a plaintext password into the digest kept by the stores.
type Hasher func(plain string) string

// AuthService authenticates credentials against the admin store and then
// the student store.
type AuthService struct {
	admins   AdminStore
	students StudentStore
	hash     Hasher
	log      *zap.Logger
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithHasher replaces the default SHA-256 password hasher.
func WithHasher(h Hasher) AuthOption {
	return func(s *AuthService) { s.hash = h }
}

// NewAuthService constructs an AuthService over the two identity stores.
// A nil logger disables logging.
func NewAuthService(admins AdminStore, students StudentStore, log *zap.Logger, opts ...AuthOption) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &AuthService{admins: admins, students: students, hash: crypto.HashPassword, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate checks the credentials and returns the matching identity.
// Admin accounts take precedence over student accounts with the same email.
// Failures are *AuthError values; match them with errors.Is against
// ErrEmptyInput, ErrInvalidCredentials or ErrStorageFailure.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, &AuthError{Kind: KindEmptyInput}
	}

	digest := s.hash(password)

	ok, err := s.admins.VerifyPassword(ctx, email, digest)
	if err != nil {
		return s.storageFailure(models.RoleAdmin, err)
	}
	if ok {
		admin, err := s.admins.FindByEmail(ctx, email)
		if err != nil {
			return s.storageFailure(models.RoleAdmin, err)
		}
		if admin == nil {
			return models.User{}, &AuthError{Kind: KindInvalidCredentials}
		}
		return s.success(admin.User()), nil
	}

	ok, err = s.students.VerifyPassword(ctx, email, digest)
	if err != nil {
		return s.storageFailure(models.RoleStudent, err)
	}
	if ok {
		student, err := s.students.FindByEmail(ctx, email)
		if err != nil {
			return s.storageFailure(models.RoleStudent, err)
		}
		if student == nil {
			return models.User{}, &AuthError{Kind: KindInvalidCredentials}
		}
		return s.success(student.User()), nil
	}

	s.log.Info("login rejected")
	return models.User{}, &AuthError{Kind: KindInvalidCredentials}
}

func (s *AuthService) success(u models.User) models.User {
	s.log.Info("login succeeded", zap.Stringer("role", u.Role), zap.Int("user_id", u.ID))
	return u
}

func (s *AuthService) storageFailure(store models.Role, err error) (models.User, error) {
	s.log.Error("identity store failed", zap.Stringer("store", store), zap.Error(err))
	return models.User{}, &AuthError{Kind: KindStorageFailure, Err: err}
}
