// Package models defines the core data structures for people, courses and
// grades, and the identity held by a logged-in session.
package models

import "time"

// Role identifies which kind of account a user logged in with.
type Role int

const (
	// RoleAdmin is a member of staff managing students and courses.
	RoleAdmin Role = iota + 1
	// RoleStudent is an enrolled student.
	RoleStudent
)

// String returns the role name used in logs and dashboards.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleStudent:
		return "student"
	default:
		return "unknown"
	}
}

// User is the authenticated identity kept by the session. It is a
// projection of an Admin or Student and never carries a password digest.
type User struct {
	ID        int
	Role      Role
	FirstName string
	LastName  string
	Email     string
}

// FullName joins the first and last name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Admin is a persisted staff account.
type Admin struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
}

// User projects the admin into a session identity.
func (a Admin) User() User {
	return User{ID: a.ID, Role: RoleAdmin, FirstName: a.FirstName, LastName: a.LastName, Email: a.Email}
}

// Student is a persisted student account.
type Student struct {
	ID          int
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
	JoinDate    time.Time
}

// User projects the student into a session identity.
func (s Student) User() User {
	return User{ID: s.ID, Role: RoleStudent, FirstName: s.FirstName, LastName: s.LastName, Email: s.Email}
}

// Course is a programme students enrol in.
type Course struct {
	ID          int
	Name        string
	Description string
}

// Module is a unit of teaching within a course.
type Module struct {
	ID          int
	Name        string
	Description string
	Lecturer    string
	CourseID    int
}

// Assessment is a graded piece of work within a module.
type Assessment struct {
	ID          int
	Name        string
	Description string
	DueDate     time.Time
	ModuleID    int
}

// CourseEnrollment links a student to a course.
type CourseEnrollment struct {
	ID             int
	StudentID      int
	CourseID       int
	EnrollmentDate time.Time
}

// Result is the grade a student got for an assessment.
type Result struct {
	ID           int
	StudentID    int
	AssessmentID int
	Grade        int
}
