package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/sms/internal/crypto"
	"github.com/atinyakov/sms/internal/forms"
	"github.com/atinyakov/sms/internal/models"
	"github.com/atinyakov/sms/internal/validation"
	"go.uber.org/zap"
)

// StudentRepository defines the persistence operations needed to manage students.
type StudentRepository interface {
	// AddStudent stores a new student with the given password digest and returns its ID.
	AddStudent(ctx context.Context, s models.Student, digest string) (int, error)
	// FindByID returns the student with the given ID, or nil.
	FindByID(ctx context.Context, id int) (*models.Student, error)
	// FindAll returns every student.
	FindAll(ctx context.Context) ([]models.Student, error)
	// Update overwrites a student, password digest included.
	Update(ctx context.Context, s models.Student, digest string) (int64, error)
	// Delete removes the students with the given IDs.
	Delete(ctx context.Context, ids ...int) (int64, error)
}

// StudentService manages student accounts.
type StudentService struct {
	repo StudentRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewStudentService constructs a StudentService using the provided repository.
func NewStudentService(repo StudentRepository, log *zap.Logger) *StudentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudentService{repo: repo, log: log, now: time.Now}
}

// Register validates the student form and stores the student. An invalid
// form yields a *validation.ValidationError listing every problem; nothing
// is stored in that case.
func (s *StudentService) Register(ctx context.Context, form validation.Form) (models.Student, error) {
	if err := validation.Run(forms.Student(s.now()), form).Err(); err != nil {
		return models.Student{}, err
	}

	student := studentFromForm(form)
	id, err := s.repo.AddStudent(ctx, student, crypto.HashPassword(form.Text(forms.KeyPassword)))
	if err != nil {
		return models.Student{}, err
	}
	student.ID = id

	s.log.Info("student registered", zap.Int("student_id", id))
	return student, nil
}

// List returns every student.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	return s.repo.FindAll(ctx)
}

// Get returns the student with the given id.
func (s *StudentService) Get(ctx context.Context, id int) (models.Student, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Student{}, err
	}
	if st == nil {
		return models.Student{}, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return *st, nil
}

// Update validates the edit form (the student form plus the record id) and
// overwrites the student, password included.
func (s *StudentService) Update(ctx context.Context, form validation.Form) (models.Student, error) {
	if err := validation.Run(forms.WithID(forms.Student(s.now())), form).Err(); err != nil {
		return models.Student{}, err
	}
	id, err := formID(form)
	if err != nil {
		return models.Student{}, err
	}
	student := studentFromForm(form)
	student.ID = id
	n, err := s.repo.Update(ctx, student, crypto.HashPassword(form.Text(forms.KeyPassword)))
	if err := changed(n, err, "student", id); err != nil {
		return models.Student{}, err
	}
	s.log.Info("student updated", zap.Int("student_id", id))
	return student, nil
}

// Delete removes the student with the given id along with their
// enrollments and results.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	n, err := s.repo.Delete(ctx, id)
	if err := changed(n, err, "student", id); err != nil {
		return err
	}
	s.log.Info("student deleted", zap.Int("student_id", id))
	return nil
}

func studentFromForm(form validation.Form) models.Student {
	return models.Student{
		FirstName:   strings.TrimSpace(form.Text(forms.KeyFirstName)),
		LastName:    strings.TrimSpace(form.Text(forms.KeyLastName)),
		Email:       strings.TrimSpace(form.Text(forms.KeyEmail)),
		DateOfBirth: *form.Date(forms.KeyDateOfBirth),
		JoinDate:    *form.Date(forms.KeyJoinDate),
	}
}
