package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/sms/internal/forms"
	"github.com/atinyakov/sms/internal/service"
)

// confirm asks a yes/no question. Anything but y or yes counts as no.
func (s *Shell) confirm(ctx context.Context, question string) bool {
	answer, err := s.p.Line(ctx, question+" (y/N): ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	s.println("Cancelled.")
	return false
}

// changeFailed reports a failed edit or delete. A missing record is a user
// mistake rather than a fault.
func (s *Shell) changeFailed(op string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		s.println("Not found.")
		return
	}
	s.fail(op, err)
}

func (s *Shell) editStudent(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.WithID(forms.Student(s.now())))
	if err != nil {
		return
	}
	st, err := s.svc.Students.Update(ctx, form)
	if err != nil {
		s.changeFailed("update student", err)
		return
	}
	fmt.Fprintf(s.out, "Student %d updated\n", st.ID)
}

func (s *Shell) editAdmin(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.WithID(forms.Admin()))
	if err != nil {
		return
	}
	a, err := s.svc.Admins.Update(ctx, form)
	if err != nil {
		s.changeFailed("update admin", err)
		return
	}
	fmt.Fprintf(s.out, "Admin %d updated\n", a.ID)
}

func (s *Shell) editCourse(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.WithID(forms.Course()))
	if err != nil {
		return
	}
	c, err := s.svc.Courses.Update(ctx, form)
	if err != nil {
		s.changeFailed("update course", err)
		return
	}
	fmt.Fprintf(s.out, "Course %d updated\n", c.ID)
}

func (s *Shell) editModule(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.WithID(forms.Module()))
	if err != nil {
		return
	}
	m, err := s.svc.Courses.UpdateModule(ctx, form)
	if err != nil {
		s.changeFailed("update module", err)
		return
	}
	fmt.Fprintf(s.out, "Module %d updated\n", m.ID)
}

func (s *Shell) editAssessment(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.WithID(forms.Assessment(s.now())))
	if err != nil {
		return
	}
	a, err := s.svc.Courses.UpdateAssessment(ctx, form)
	if err != nil {
		s.changeFailed("update assessment", err)
		return
	}
	fmt.Fprintf(s.out, "Assessment %d updated\n", a.ID)
}

func (s *Shell) deleteStudent(ctx context.Context, args []string) {
	if !s.requireAdmin() {
		return
	}
	id, ok := intArg(args)
	if !ok {
		s.println("Usage: delete-student <id>")
		return
	}
	st, err := s.svc.Students.Get(ctx, id)
	if err != nil {
		s.changeFailed("find student", err)
		return
	}
	if !s.confirm(ctx, fmt.Sprintf("Are you sure you would like to delete student: %s %s?", st.FirstName, st.LastName)) {
		return
	}
	if err := s.svc.Students.Delete(ctx, id); err != nil {
		s.changeFailed("delete student", err)
		return
	}
	s.println("Deleted.")
}

func (s *Shell) deleteAdmin(ctx context.Context, args []string) {
	if !s.requireAdmin() {
		return
	}
	id, ok := intArg(args)
	if !ok {
		s.println("Usage: delete-admin <id>")
		return
	}
	if u, _ := s.sess.User(); u.ID == id {
		s.println("You cannot delete your own account.")
		return
	}
	a, err := s.svc.Admins.Get(ctx, id)
	if err != nil {
		s.changeFailed("find admin", err)
		return
	}
	if !s.confirm(ctx, fmt.Sprintf("Are you sure you would like to delete admin: %s %s?", a.FirstName, a.LastName)) {
		return
	}
	if err := s.svc.Admins.Delete(ctx, id); err != nil {
		s.changeFailed("delete admin", err)
		return
	}
	s.println("Deleted.")
}

// deleteByID handles the delete commands whose records have no name lookup.
func (s *Shell) deleteByID(ctx context.Context, what string, args []string, del func(context.Context, int) error) {
	if !s.requireAdmin() {
		return
	}
	id, ok := intArg(args)
	if !ok {
		s.println("Usage: delete-" + what + " <id>")
		return
	}
	if !s.confirm(ctx, fmt.Sprintf("Are you sure you would like to delete %s %d?", what, id)) {
		return
	}
	if err := del(ctx, id); err != nil {
		s.changeFailed("delete "+what, err)
		return
	}
	s.println("Deleted.")
}

func (s *Shell) deleteCourse(ctx context.Context, args []string) {
	s.deleteByID(ctx, "course", args, func(ctx context.Context, id int) error {
		return s.svc.Courses.Delete(ctx, s.sess, id)
	})
}

func (s *Shell) deleteModule(ctx context.Context, args []string) {
	s.deleteByID(ctx, "module", args, s.svc.Courses.DeleteModule)
}

func (s *Shell) deleteAssessment(ctx context.Context, args []string) {
	s.deleteByID(ctx, "assessment", args, s.svc.Courses.DeleteAssessment)
}

func (s *Shell) unenroll(ctx context.Context, args []string) {
	if !s.requireAdmin() {
		return
	}
	if len(args) != 2 {
		s.println("Usage: unenroll <student-id> <course-id>")
		return
	}
	studentID, err1 := strconv.Atoi(args[0])
	courseID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		s.println("Usage: unenroll <student-id> <course-id>")
		return
	}
	if err := s.svc.Courses.Unenroll(ctx, studentID, courseID); err != nil {
		s.changeFailed("unenroll", err)
		return
	}
	s.println("Unenrolled.")
}
