package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/sms/internal/forms"
	"github.com/atinyakov/sms/internal/models"
	"github.com/atinyakov/sms/internal/validation"
	"go.uber.org/zap"
)

// ErrCourseNotFound is returned when a course ID does not exist. It
// matches ErrNotFound.
var ErrCourseNotFound = fmt.Errorf("course: %w", ErrNotFound)

// ErrNoCourseSelected is returned when an operation needs a selected course
// and none has been picked.
var ErrNoCourseSelected = errors.New("no course selected")

// CourseRepository defines the persistence operations needed by the CourseService.
type CourseRepository interface {
	AddCourse(ctx context.Context, c models.Course) (int, error)
	FindByID(ctx context.Context, id int) (*models.Course, error)
	FindAll(ctx context.Context) ([]models.Course, error)
	FindByStudent(ctx context.Context, studentID int) ([]models.Course, error)
	Enroll(ctx context.Context, e models.CourseEnrollment) error
	ModulesByCourse(ctx context.Context, courseID int) ([]models.Module, error)
	AddModule(ctx context.Context, m models.Module) (int, error)
	AddAssessment(ctx context.Context, a models.Assessment) (int, error)
	AssessmentsByModule(ctx context.Context, moduleID int) ([]models.Assessment, error)
	ResultsByStudent(ctx context.Context, studentID int) ([]models.Result, error)
	UpdateCourse(ctx context.Context, c models.Course) (int64, error)
	DeleteCourse(ctx context.Context, id int) (int64, error)
	UpdateModule(ctx context.Context, m models.Module) (int64, error)
	DeleteModule(ctx context.Context, id int) (int64, error)
	UpdateAssessment(ctx context.Context, a models.Assessment) (int64, error)
	DeleteAssessment(ctx context.Context, id int) (int64, error)
	Unenroll(ctx context.Context, studentID, courseID int) (int64, error)
}

// CourseSelection is the part of the session that remembers the course the
// user is working with.
type CourseSelection interface {
	SetSelectedCourseID(id int)
	SelectedCourseID() int
}

// CourseService implements course browsing and enrollment.
type CourseService struct {
	repo CourseRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewCourseService constructs a CourseService with the provided CourseRepository.
func NewCourseService(repo CourseRepository, log *zap.Logger) *CourseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseService{repo: repo, log: log, now: time.Now}
}

// Create validates the course form and stores the course.
func (s *CourseService) Create(ctx context.Context, form validation.Form) (models.Course, error) {
	if err := validation.Run(forms.Course(), form).Err(); err != nil {
		return models.Course{}, err
	}
	c := models.Course{Name: form.Text(forms.KeyName), Description: form.Text(forms.KeyDescription)}
	id, err := s.repo.AddCourse(ctx, c)
	if err != nil {
		return models.Course{}, err
	}
	c.ID = id
	s.log.Info("course created", zap.Int("course_id", id))
	return c, nil
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	return s.repo.FindAll(ctx)
}

// StudentCourses returns the courses visible to u: the enrolled ones for a
// student, every course for an admin.
func (s *CourseService) StudentCourses(ctx context.Context, u models.User) ([]models.Course, error) {
	if u.Role == models.RoleStudent {
		return s.repo.FindByStudent(ctx, u.ID)
	}
	return s.repo.FindAll(ctx)
}

// Select checks that the course exists and remembers it in sel.
func (s *CourseService) Select(ctx context.Context, sel CourseSelection, courseID int) (models.Course, error) {
	c, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if c == nil {
		return models.Course{}, fmt.Errorf("course %d: %w", courseID, ErrCourseNotFound)
	}
	sel.SetSelectedCourseID(c.ID)
	return *c, nil
}

// Modules returns the modules of the selected course.
func (s *CourseService) Modules(ctx context.Context, sel CourseSelection) ([]models.Module, error) {
	id := sel.SelectedCourseID()
	if id == 0 {
		return nil, ErrNoCourseSelected
	}
	return s.repo.ModulesByCourse(ctx, id)
}

// Enroll adds a student to a course, dated today.
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID int) error {
	err := s.repo.Enroll(ctx, models.CourseEnrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		EnrollmentDate: s.now(),
	})
	if err != nil {
		return err
	}
	s.log.Info("student enrolled", zap.Int("student_id", studentID), zap.Int("course_id", courseID))
	return nil
}

// AddModule validates the module form and adds the module to the selected
// course.
func (s *CourseService) AddModule(ctx context.Context, sel CourseSelection, form validation.Form) (models.Module, error) {
	courseID := sel.SelectedCourseID()
	if courseID == 0 {
		return models.Module{}, ErrNoCourseSelected
	}
	if err := validation.Run(forms.Module(), form).Err(); err != nil {
		return models.Module{}, err
	}
	m := models.Module{
		Name:        form.Text(forms.KeyName),
		Description: form.Text(forms.KeyDescription),
		Lecturer:    form.Text(forms.KeyLecturer),
		CourseID:    courseID,
	}
	id, err := s.repo.AddModule(ctx, m)
	if err != nil {
		return models.Module{}, err
	}
	m.ID = id
	s.log.Info("module created", zap.Int("module_id", id), zap.Int("course_id", courseID))
	return m, nil
}

// AddAssessment validates the assessment form and adds the assessment to
// a module. The due date may not be in the past.
func (s *CourseService) AddAssessment(ctx context.Context, moduleID int, form validation.Form) (models.Assessment, error) {
	if err := validation.Run(forms.Assessment(s.now()), form).Err(); err != nil {
		return models.Assessment{}, err
	}
	a := models.Assessment{
		Name:        form.Text(forms.KeyName),
		Description: form.Text(forms.KeyDescription),
		DueDate:     *form.Date(forms.KeyDueDate),
		ModuleID:    moduleID,
	}
	id, err := s.repo.AddAssessment(ctx, a)
	if err != nil {
		return models.Assessment{}, err
	}
	a.ID = id
	s.log.Info("assessment created", zap.Int("assessment_id", id), zap.Int("module_id", moduleID))
	return a, nil
}

// Assessments returns the assessments of a module.
func (s *CourseService) Assessments(ctx context.Context, moduleID int) ([]models.Assessment, error) {
	return s.repo.AssessmentsByModule(ctx, moduleID)
}

// Results returns the grades of a student.
func (s *CourseService) Results(ctx context.Context, studentID int) ([]models.Result, error) {
	return s.repo.ResultsByStudent(ctx, studentID)
}

// Update validates the course edit form and overwrites the course.
func (s *CourseService) Update(ctx context.Context, form validation.Form) (models.Course, error) {
	if err := validation.Run(forms.WithID(forms.Course()), form).Err(); err != nil {
		return models.Course{}, err
	}
	id, err := formID(form)
	if err != nil {
		return models.Course{}, err
	}
	c := models.Course{ID: id, Name: form.Text(forms.KeyName), Description: form.Text(forms.KeyDescription)}
	n, err := s.repo.UpdateCourse(ctx, c)
	if err := changed(n, err, "course", id); err != nil {
		return models.Course{}, err
	}
	s.log.Info("course updated", zap.Int("course_id", id))
	return c, nil
}

// Delete removes a course. A selection pointing at it is dropped.
func (s *CourseService) Delete(ctx context.Context, sel CourseSelection, id int) error {
	n, err := s.repo.DeleteCourse(ctx, id)
	if err := changed(n, err, "course", id); err != nil {
		return err
	}
	if sel.SelectedCourseID() == id {
		sel.SetSelectedCourseID(0)
	}
	s.log.Info("course deleted", zap.Int("course_id", id))
	return nil
}

// UpdateModule validates the module edit form and overwrites the module.
func (s *CourseService) UpdateModule(ctx context.Context, form validation.Form) (models.Module, error) {
	if err := validation.Run(forms.WithID(forms.Module()), form).Err(); err != nil {
		return models.Module{}, err
	}
	id, err := formID(form)
	if err != nil {
		return models.Module{}, err
	}
	m := models.Module{
		ID:          id,
		Name:        form.Text(forms.KeyName),
		Description: form.Text(forms.KeyDescription),
		Lecturer:    form.Text(forms.KeyLecturer),
	}
	n, err := s.repo.UpdateModule(ctx, m)
	if err := changed(n, err, "module", id); err != nil {
		return models.Module{}, err
	}
	s.log.Info("module updated", zap.Int("module_id", id))
	return m, nil
}

// DeleteModule removes a module and its assessments.
func (s *CourseService) DeleteModule(ctx context.Context, id int) error {
	n, err := s.repo.DeleteModule(ctx, id)
	if err := changed(n, err, "module", id); err != nil {
		return err
	}
	s.log.Info("module deleted", zap.Int("module_id", id))
	return nil
}

// UpdateAssessment validates the assessment edit form and overwrites the
// assessment.
func (s *CourseService) UpdateAssessment(ctx context.Context, form validation.Form) (models.Assessment, error) {
	if err := validation.Run(forms.WithID(forms.Assessment(s.now())), form).Err(); err != nil {
		return models.Assessment{}, err
	}
	id, err := formID(form)
	if err != nil {
		return models.Assessment{}, err
	}
	a := models.Assessment{
		ID:          id,
		Name:        form.Text(forms.KeyName),
		Description: form.Text(forms.KeyDescription),
		DueDate:     *form.Date(forms.KeyDueDate),
	}
	n, err := s.repo.UpdateAssessment(ctx, a)
	if err := changed(n, err, "assessment", id); err != nil {
		return models.Assessment{}, err
	}
	s.log.Info("assessment updated", zap.Int("assessment_id", id))
	return a, nil
}

// DeleteAssessment removes an assessment and its results.
func (s *CourseService) DeleteAssessment(ctx context.Context, id int) error {
	n, err := s.repo.DeleteAssessment(ctx, id)
	if err := changed(n, err, "assessment", id); err != nil {
		return err
	}
	s.log.Info("assessment deleted", zap.Int("assessment_id", id))
	return nil
}

// Unenroll removes a student from a course.
func (s *CourseService) Unenroll(ctx context.Context, studentID, courseID int) error {
	n, err := s.repo.Unenroll(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("student %d in course %d: %w", studentID, courseID, ErrNotFound)
	}
	s.log.Info("student unenrolled", zap.Int("student_id", studentID), zap.Int("course_id", courseID))
	return nil
}
