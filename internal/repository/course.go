package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/sms/internal/models"
)

// PostgresCourseRepository stores courses together with their modules,
// assessments, enrollments and results.
type PostgresCourseRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCourseRepository creates a new PostgresCourseRepository using the provided *sql.DB.
func NewPostgresCourseRepository(db *sql.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{DB: db}
}

// AddCourse inserts a course and returns its ID.
func (r *PostgresCourseRepository) AddCourse(ctx context.Context, c models.Course) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO courses (name, description) VALUES ($1, $2) RETURNING id
	`, c.Name, c.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("AddCourse: %w", err)
	}
	return id, nil
}

// FindByID returns the course with the given ID, or nil if there is none.
func (r *PostgresCourseRepository) FindByID(ctx context.Context, id int) (*models.Course, error) {
	var c models.Course
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, description FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return &c, nil
}

// FindAll returns every course ordered by ID.
func (r *PostgresCourseRepository) FindAll(ctx context.Context) ([]models.Course, error) {
	return r.queryCourses(ctx, "FindAll", `SELECT id, name, description FROM courses ORDER BY id`)
}

// FindByStudent returns the courses the student is enrolled in.
func (r *PostgresCourseRepository) FindByStudent(ctx context.Context, studentID int) ([]models.Course, error) {
	return r.queryCourses(ctx, "FindByStudent", `
		SELECT c.id, c.name, c.description FROM courses c
		JOIN course_enrollments e ON e.course_id = c.id
		WHERE e.student_id = $1 ORDER BY c.id
	`, studentID)
}

func (r *PostgresCourseRepository) queryCourses(ctx context.Context, op, query string, args ...any) ([]models.Course, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// UpdateCourse overwrites the name and description of a course and returns
// the number of rows changed.
func (r *PostgresCourseRepository) UpdateCourse(ctx context.Context, c models.Course) (int64, error) {
	return r.exec(ctx, "UpdateCourse", `UPDATE courses SET name = $1, description = $2 WHERE id = $3`,
		c.Name, c.Description, c.ID)
}

// DeleteCourse removes a course together with its modules, assessments and
// enrollments.
func (r *PostgresCourseRepository) DeleteCourse(ctx context.Context, id int) (int64, error) {
	return r.exec(ctx, "DeleteCourse", `DELETE FROM courses WHERE id = $1`, id)
}

func (r *PostgresCourseRepository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res.RowsAffected()
}

// Enroll records a student's enrollment in a course. Enrolling twice is a no-op.
func (r *PostgresCourseRepository) Enroll(ctx context.Context, e models.CourseEnrollment) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO course_enrollments (student_id, course_id, enrollment_date)
		VALUES ($1, $2, $3) ON CONFLICT DO NOTHING
	`, e.StudentID, e.CourseID, e.EnrollmentDate)
	if err != nil {
		return fmt.Errorf("Enroll: %w", err)
	}
	return nil
}

// Unenroll removes a student's enrollment in a course.
func (r *PostgresCourseRepository) Unenroll(ctx context.Context, studentID, courseID int) (int64, error) {
	return r.exec(ctx, "Unenroll", `DELETE FROM course_enrollments WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID)
}

// AddModule inserts a module and returns its ID.
func (r *PostgresCourseRepository) AddModule(ctx context.Context, m models.Module) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO modules (name, description, lecturer, course_id) VALUES ($1, $2, $3, $4) RETURNING id
	`, m.Name, m.Description, m.Lecturer, m.CourseID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("AddModule: %w", err)
	}
	return id, nil
}

// ModulesByCourse returns the modules of a course ordered by ID.
func (r *PostgresCourseRepository) ModulesByCourse(ctx context.Context, courseID int) ([]models.Module, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, lecturer, course_id FROM modules WHERE course_id = $1 ORDER BY id
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("ModulesByCourse: %w", err)
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Lecturer, &m.CourseID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// UpdateModule overwrites the name, description and lecturer of a module.
// The owning course does not change.
func (r *PostgresCourseRepository) UpdateModule(ctx context.Context, m models.Module) (int64, error) {
	return r.exec(ctx, "UpdateModule", `UPDATE modules SET name = $1, description = $2, lecturer = $3 WHERE id = $4`,
		m.Name, m.Description, m.Lecturer, m.ID)
}

// DeleteModule removes a module and its assessments.
func (r *PostgresCourseRepository) DeleteModule(ctx context.Context, id int) (int64, error) {
	return r.exec(ctx, "DeleteModule", `DELETE FROM modules WHERE id = $1`, id)
}

// AddAssessment inserts an assessment and returns its ID.
func (r *PostgresCourseRepository) AddAssessment(ctx context.Context, a models.Assessment) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO assessments (name, description, due_date, module_id) VALUES ($1, $2, $3, $4) RETURNING id
	`, a.Name, a.Description, a.DueDate, a.ModuleID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("AddAssessment: %w", err)
	}
	return id, nil
}

// AssessmentsByModule returns the assessments of a module ordered by due date.
func (r *PostgresCourseRepository) AssessmentsByModule(ctx context.Context, moduleID int) ([]models.Assessment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, due_date, module_id FROM assessments WHERE module_id = $1 ORDER BY due_date, id
	`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("AssessmentsByModule: %w", err)
	}
	defer rows.Close()

	var assessments []models.Assessment
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.DueDate, &a.ModuleID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

// UpdateAssessment overwrites the name, description and due date of an
// assessment. The owning module does not change.
func (r *PostgresCourseRepository) UpdateAssessment(ctx context.Context, a models.Assessment) (int64, error) {
	return r.exec(ctx, "UpdateAssessment", `UPDATE assessments SET name = $1, description = $2, due_date = $3 WHERE id = $4`,
		a.Name, a.Description, a.DueDate, a.ID)
}

// DeleteAssessment removes an assessment and its results.
func (r *PostgresCourseRepository) DeleteAssessment(ctx context.Context, id int) (int64, error) {
	return r.exec(ctx, "DeleteAssessment", `DELETE FROM assessments WHERE id = $1`, id)
}

// ResultsByStudent returns every grade recorded for a student.
func (r *PostgresCourseRepository) ResultsByStudent(ctx context.Context, studentID int) ([]models.Result, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, student_id, assessment_id, grade FROM results WHERE student_id = $1 ORDER BY id
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("ResultsByStudent: %w", err)
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var res models.Result
		if err := rows.Scan(&res.ID, &res.StudentID, &res.AssessmentID, &res.Grade); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
