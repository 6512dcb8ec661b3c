package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/sms/internal/crypto"
	"github.com/atinyakov/sms/internal/forms"
	"github.com/atinyakov/sms/internal/models"
	"github.com/atinyakov/sms/internal/validation"
	"go.uber.org/zap"
)

// AdminRepository defines the persistence operations needed to manage staff accounts.
type AdminRepository interface {
	AddAdmin(ctx context.Context, admin models.Admin, digest string) (int, error)
	FindByID(ctx context.Context, id int) (*models.Admin, error)
	FindAll(ctx context.Context) ([]models.Admin, error)
	Update(ctx context.Context, admin models.Admin, digest string) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// AdminService manages staff accounts.
type AdminService struct {
	repo AdminRepository
	log  *zap.Logger
}

// NewAdminService constructs an AdminService using the provided repository.
func NewAdminService(repo AdminRepository, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{repo: repo, log: log}
}

// Register validates the admin form and stores the account.
func (s *AdminService) Register(ctx context.Context, form validation.Form) (models.Admin, error) {
	if err := validation.Run(forms.Admin(), form).Err(); err != nil {
		return models.Admin{}, err
	}
	admin := adminFromForm(form)
	id, err := s.repo.AddAdmin(ctx, admin, crypto.HashPassword(form.Text(forms.KeyPassword)))
	if err != nil {
		return models.Admin{}, err
	}
	admin.ID = id
	s.log.Info("admin registered", zap.Int("admin_id", id))
	return admin, nil
}

// List returns every admin.
func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	return s.repo.FindAll(ctx)
}

// Get returns the admin with the given id.
func (s *AdminService) Get(ctx context.Context, id int) (models.Admin, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Admin{}, err
	}
	if a == nil {
		return models.Admin{}, fmt.Errorf("admin %d: %w", id, ErrNotFound)
	}
	return *a, nil
}

// Update validates the edit form (the admin form plus the record id) and
// overwrites the admin, password included.
func (s *AdminService) Update(ctx context.Context, form validation.Form) (models.Admin, error) {
	if err := validation.Run(forms.WithID(forms.Admin()), form).Err(); err != nil {
		return models.Admin{}, err
	}
	id, err := formID(form)
	if err != nil {
		return models.Admin{}, err
	}
	admin := adminFromForm(form)
	admin.ID = id
	n, err := s.repo.Update(ctx, admin, crypto.HashPassword(form.Text(forms.KeyPassword)))
	if err := changed(n, err, "admin", id); err != nil {
		return models.Admin{}, err
	}
	s.log.Info("admin updated", zap.Int("admin_id", id))
	return admin, nil
}

// Delete removes the admin with the given id.
func (s *AdminService) Delete(ctx context.Context, id int) error {
	n, err := s.repo.Delete(ctx, id)
	if err := changed(n, err, "admin", id); err != nil {
		return err
	}
	s.log.Info("admin deleted", zap.Int("admin_id", id))
	return nil
}

func adminFromForm(form validation.Form) models.Admin {
	return models.Admin{
		FirstName: strings.TrimSpace(form.Text(forms.KeyFirstName)),
		LastName:  strings.TrimSpace(form.Text(forms.KeyLastName)),
		Email:     strings.TrimSpace(form.Text(forms.KeyEmail)),
	}
}
