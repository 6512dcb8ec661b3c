package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/sms/internal/forms"
	"github.com/atinyakov/sms/internal/models"
	"github.com/atinyakov/sms/internal/service"
	"github.com/atinyakov/sms/internal/session"
	"github.com/atinyakov/sms/internal/validation"
	"go.uber.org/zap"
)

const prompt = "sms> "

const helpText = `Available commands:
  login                         log in with email and password
  logout                        end the current login
  whoami                        show the logged-in user
  courses                       list your courses
  select <id>                   pick the course to work with
  modules                       list modules of the selected course
  assessments <module-id>       list assessments of a module
  results [student-id]          show grades (admins give a student id)
  students                      list students (admin)
  admins                        list admins (admin)
  add-student                   register a student (admin)
  add-admin                     register an admin (admin)
  add-course                    create a course (admin)
  add-module                    add a module to the selected course (admin)
  add-assessment <module-id>    add an assessment to a module (admin)
  enroll <student-id> <course-id>  enrol a student (admin)
  unenroll <student-id> <course-id>  remove a student from a course (admin)
  edit-student                  change a student (admin)
  edit-admin                    change an admin (admin)
  edit-course                   change a course (admin)
  edit-module                   change a module (admin)
  edit-assessment               change an assessment (admin)
  delete-student <id>           remove a student (admin)
  delete-admin <id>             remove an admin (admin)
  delete-course <id>            remove a course (admin)
  delete-module <id>            remove a module (admin)
  delete-assessment <id>        remove an assessment (admin)
  help                          show this help
  exit                          quit`

// Authenticator checks login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// CourseBrowser is the course functionality the shell exposes.
type CourseBrowser interface {
	StudentCourses(ctx context.Context, u models.User) ([]models.Course, error)
	Select(ctx context.Context, sel service.CourseSelection, courseID int) (models.Course, error)
	Modules(ctx context.Context, sel service.CourseSelection) ([]models.Module, error)
	Create(ctx context.Context, form validation.Form) (models.Course, error)
	Enroll(ctx context.Context, studentID, courseID int) error
	AddModule(ctx context.Context, sel service.CourseSelection, form validation.Form) (models.Module, error)
	AddAssessment(ctx context.Context, moduleID int, form validation.Form) (models.Assessment, error)
	Assessments(ctx context.Context, moduleID int) ([]models.Assessment, error)
	Results(ctx context.Context, studentID int) ([]models.Result, error)
	Update(ctx context.Context, form validation.Form) (models.Course, error)
	Delete(ctx context.Context, sel service.CourseSelection, id int) error
	UpdateModule(ctx context.Context, form validation.Form) (models.Module, error)
	DeleteModule(ctx context.Context, id int) error
	UpdateAssessment(ctx context.Context, form validation.Form) (models.Assessment, error)
	DeleteAssessment(ctx context.Context, id int) error
	Unenroll(ctx context.Context, studentID, courseID int) error
}

// StudentDirectory manages student accounts.
type StudentDirectory interface {
	Register(ctx context.Context, form validation.Form) (models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id int) (models.Student, error)
	Update(ctx context.Context, form validation.Form) (models.Student, error)
	Delete(ctx context.Context, id int) error
}

// AdminDirectory manages staff accounts.
type AdminDirectory interface {
	Register(ctx context.Context, form validation.Form) (models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Get(ctx context.Context, id int) (models.Admin, error)
	Update(ctx context.Context, form validation.Form) (models.Admin, error)
	Delete(ctx context.Context, id int) error
}

// Services groups the back ends the shell talks to.
type Services struct {
	Auth     Authenticator
	Courses  CourseBrowser
	Students StudentDirectory
	Admins   AdminDirectory
}

// Shell is the interactive command loop.
type Shell struct {
	p    *Prompter
	out  io.Writer
	sess *session.Session
	svc  Services
	log  *zap.Logger
	now  func() time.Time
}

// NewShell wires a shell reading commands from in and writing to out.
func NewShell(in io.Reader, out io.Writer, sess *session.Session, svc Services, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{
		p:    NewPrompter(in, out),
		out:  out,
		sess: sess,
		svc:  svc,
		log:  log,
		now:  time.Now,
	}
}

// Run reads commands until exit or end of input. It returns ctx.Err() as
// soon as ctx is done, even while waiting for input.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.p.Line(ctx, prompt)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			s.println(helpText)
		case "login":
			s.login(ctx)
		case "logout":
			s.logout()
		case "whoami":
			s.whoami()
		case "courses":
			s.listCourses(ctx)
		case "select":
			s.selectCourse(ctx, args[1:])
		case "modules":
			s.listModules(ctx)
		case "add-student":
			s.addStudent(ctx)
		case "assessments":
			s.listAssessments(ctx, args[1:])
		case "results":
			s.listResults(ctx, args[1:])
		case "students":
			s.listStudents(ctx)
		case "admins":
			s.listAdmins(ctx)
		case "add-admin":
			s.addAdmin(ctx)
		case "add-course":
			s.addCourse(ctx)
		case "add-module":
			s.addModule(ctx)
		case "add-assessment":
			s.addAssessment(ctx, args[1:])
		case "enroll":
			s.enroll(ctx, args[1:])
		case "unenroll":
			s.unenroll(ctx, args[1:])
		case "edit-student":
			s.editStudent(ctx)
		case "edit-admin":
			s.editAdmin(ctx)
		case "edit-course":
			s.editCourse(ctx)
		case "edit-module":
			s.editModule(ctx)
		case "edit-assessment":
			s.editAssessment(ctx)
		case "delete-student":
			s.deleteStudent(ctx, args[1:])
		case "delete-admin":
			s.deleteAdmin(ctx, args[1:])
		case "delete-course":
			s.deleteCourse(ctx, args[1:])
		case "delete-module":
			s.deleteModule(ctx, args[1:])
		case "delete-assessment":
			s.deleteAssessment(ctx, args[1:])
		case "exit":
			s.println("Bye")
			return nil
		default:
			s.println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) login(ctx context.Context) {
	if u, ok := s.sess.User(); ok {
		s.println("Already logged in as " + u.Email + ". Use logout first.")
		return
	}

	fields := forms.Login()
	form, err := s.p.Form(ctx, fields)
	if err != nil {
		return
	}
	if outcome := validation.Run(fields, form); !outcome.Valid {
		RenderFieldFlags(s.out, validation.RunFields(fields, form))
		RenderOutcome(s.out, outcome)
		return
	}

	user, err := s.svc.Auth.Authenticate(ctx, form.Text(forms.KeyEmail), form.Text(forms.KeyPassword))
	if err != nil {
		RenderAuthError(s.out, err)
		return
	}

	s.sess.SetUser(user)
	s.log.Info("session started",
		zap.String("login_id", s.sess.LoginID()),
		zap.Int("user_id", user.ID),
		zap.Stringer("role", user.Role),
	)
	s.dashboard(user)
}

func (s *Shell) dashboard(u models.User) {
	switch u.Role {
	case models.RoleAdmin:
		s.println("== Admin Dashboard ==")
	default:
		s.println("== Student Dashboard ==")
	}
	s.println("Welcome, " + u.FullName())
}

func (s *Shell) logout() {
	if !s.sess.LoggedIn() {
		s.println("Not logged in.")
		return
	}
	s.log.Info("session ended", zap.String("login_id", s.sess.LoginID()))
	s.sess.Clear()
	s.sess.SetSelectedCourseID(0)
	s.println("Logged out.")
}

func (s *Shell) whoami() {
	u, ok := s.sess.User()
	if !ok {
		s.println("Not logged in.")
		return
	}
	fmt.Fprintf(s.out, "%s <%s> (%s)\n", u.FullName(), u.Email, u.Role)
}

// requireUser prints a hint and reports false when nobody is logged in.
func (s *Shell) requireUser() (models.User, bool) {
	u, ok := s.sess.User()
	if !ok {
		s.println("Please login first.")
	}
	return u, ok
}

func (s *Shell) requireAdmin() bool {
	u, ok := s.requireUser()
	if !ok {
		return false
	}
	if u.Role != models.RoleAdmin {
		s.println("Only admins can do that.")
		return false
	}
	return true
}

func (s *Shell) listCourses(ctx context.Context) {
	u, ok := s.requireUser()
	if !ok {
		return
	}
	courses, err := s.svc.Courses.StudentCourses(ctx, u)
	if err != nil {
		s.fail("list courses", err)
		return
	}
	if len(courses) == 0 {
		s.println("No courses.")
		return
	}
	selected := s.sess.SelectedCourseID()
	for _, c := range courses {
		marker := " "
		if c.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %d\t%s\t%s\n", marker, c.ID, c.Name, c.Description)
	}
}

func (s *Shell) selectCourse(ctx context.Context, args []string) {
	if _, ok := s.requireUser(); !ok {
		return
	}
	id, ok := intArg(args)
	if !ok {
		s.println("Usage: select <id>")
		return
	}
	c, err := s.svc.Courses.Select(ctx, s.sess, id)
	if errors.Is(err, service.ErrCourseNotFound) {
		s.println("Course not found")
		return
	}
	if err != nil {
		s.fail("select course", err)
		return
	}
	s.println("Selected course: " + c.Name)
}

func (s *Shell) listModules(ctx context.Context) {
	if _, ok := s.requireUser(); !ok {
		return
	}
	modules, err := s.svc.Courses.Modules(ctx, s.sess)
	if errors.Is(err, service.ErrNoCourseSelected) {
		s.println("Select a course first.")
		return
	}
	if err != nil {
		s.fail("list modules", err)
		return
	}
	if len(modules) == 0 {
		s.println("No modules.")
		return
	}
	for _, m := range modules {
		fmt.Fprintf(s.out, "%d\t%s\t%s\n", m.ID, m.Name, m.Lecturer)
	}
}

func (s *Shell) addStudent(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.Student(s.now()))
	if err != nil {
		return
	}
	st, err := s.svc.Students.Register(ctx, form)
	if err != nil {
		s.fail("register student", err)
		return
	}
	fmt.Fprintf(s.out, "Student %d registered\n", st.ID)
}

func (s *Shell) addCourse(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.Course())
	if err != nil {
		return
	}
	c, err := s.svc.Courses.Create(ctx, form)
	if err != nil {
		s.fail("create course", err)
		return
	}
	fmt.Fprintf(s.out, "Course %d created\n", c.ID)
}

func (s *Shell) enroll(ctx context.Context, args []string) {
	if !s.requireAdmin() {
		return
	}
	if len(args) != 2 {
		s.println("Usage: enroll <student-id> <course-id>")
		return
	}
	studentID, err1 := strconv.Atoi(args[0])
	courseID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		s.println("Usage: enroll <student-id> <course-id>")
		return
	}
	if err := s.svc.Courses.Enroll(ctx, studentID, courseID); err != nil {
		s.fail("enroll", err)
		return
	}
	s.println("Enrolled.")
}

func (s *Shell) listAssessments(ctx context.Context, args []string) {
	if _, ok := s.requireUser(); !ok {
		return
	}
	moduleID, ok := intArg(args)
	if !ok {
		s.println("Usage: assessments <module-id>")
		return
	}
	assessments, err := s.svc.Courses.Assessments(ctx, moduleID)
	if err != nil {
		s.fail("list assessments", err)
		return
	}
	if len(assessments) == 0 {
		s.println("No assessments.")
		return
	}
	for _, a := range assessments {
		fmt.Fprintf(s.out, "%d\t%s\tdue %s\n", a.ID, a.Name, a.DueDate.Format(validation.DateLayout))
	}
}

func (s *Shell) listResults(ctx context.Context, args []string) {
	u, ok := s.requireUser()
	if !ok {
		return
	}
	studentID := u.ID
	if u.Role == models.RoleAdmin {
		if studentID, ok = intArg(args); !ok {
			s.println("Usage: results <student-id>")
			return
		}
	}
	results, err := s.svc.Courses.Results(ctx, studentID)
	if err != nil {
		s.fail("list results", err)
		return
	}
	if len(results) == 0 {
		s.println("No results.")
		return
	}
	for _, r := range results {
		fmt.Fprintf(s.out, "assessment %d\t%d\n", r.AssessmentID, r.Grade)
	}
}

func (s *Shell) listStudents(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	students, err := s.svc.Students.List(ctx)
	if err != nil {
		s.fail("list students", err)
		return
	}
	for _, st := range students {
		fmt.Fprintf(s.out, "%d\t%s %s\t%s\n", st.ID, st.FirstName, st.LastName, st.Email)
	}
}

func (s *Shell) listAdmins(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	admins, err := s.svc.Admins.List(ctx)
	if err != nil {
		s.fail("list admins", err)
		return
	}
	for _, a := range admins {
		fmt.Fprintf(s.out, "%d\t%s %s\t%s\n", a.ID, a.FirstName, a.LastName, a.Email)
	}
}

func (s *Shell) addAdmin(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	form, err := s.p.Form(ctx, forms.Admin())
	if err != nil {
		return
	}
	a, err := s.svc.Admins.Register(ctx, form)
	if err != nil {
		s.fail("register admin", err)
		return
	}
	fmt.Fprintf(s.out, "Admin %d registered\n", a.ID)
}

func (s *Shell) addModule(ctx context.Context) {
	if !s.requireAdmin() {
		return
	}
	if s.sess.SelectedCourseID() == 0 {
		s.println("Select a course first.")
		return
	}
	form, err := s.p.Form(ctx, forms.Module())
	if err != nil {
		return
	}
	m, err := s.svc.Courses.AddModule(ctx, s.sess, form)
	if err != nil {
		s.fail("create module", err)
		return
	}
	fmt.Fprintf(s.out, "Module %d created\n", m.ID)
}

func (s *Shell) addAssessment(ctx context.Context, args []string) {
	if !s.requireAdmin() {
		return
	}
	moduleID, ok := intArg(args)
	if !ok {
		s.println("Usage: add-assessment <module-id>")
		return
	}
	form, err := s.p.Form(ctx, forms.Assessment(s.now()))
	if err != nil {
		return
	}
	a, err := s.svc.Courses.AddAssessment(ctx, moduleID, form)
	if err != nil {
		s.fail("create assessment", err)
		return
	}
	fmt.Fprintf(s.out, "Assessment %d created\n", a.ID)
}

// intArg parses the single numeric argument of a command.
func intArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	return n, err == nil
}

// fail shows err to the user. Validation failures are expected input
// mistakes and are not logged.
func (s *Shell) fail(op string, err error) {
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		s.log.Error(op+" failed", zap.String("login_id", s.sess.LoginID()), zap.Error(err))
	}
	renderError(s.out, err)
}
