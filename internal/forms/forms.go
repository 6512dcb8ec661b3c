// Package forms defines the fields and validation rules of each data-entry
// screen.
package forms

import (
	"time"

	v "github.com/atinyakov/sms/internal/validation"
)

// Field keys shared by the screens.
const (
	KeyEmail       = "email"
	KeyPassword    = "password"
	KeyFirstName   = "first_name"
	KeyLastName    = "last_name"
	KeyDateOfBirth = "date_of_birth"
	KeyJoinDate    = "join_date"
	KeyName        = "name"
	KeyDescription = "description"
	KeyLecturer    = "lecturer"
	KeyDueDate     = "due_date"
	KeyID          = "id"
)

// WithID prepends the record id field used by the edit screens.
func WithID(fields []*v.FieldValidator) []*v.FieldValidator {
	return append([]*v.FieldValidator{v.MustField("Id", KeyID, v.MinLength(1))}, fields...)
}

// Login is the login screen.
func Login() []*v.FieldValidator {
	return []*v.FieldValidator{
		v.MustField("Email", KeyEmail, v.MinLength(1)),
		v.MustField("Password", KeyPassword, v.MinLength(1)),
	}
}

// Admin is the manage-admins screen.
func Admin() []*v.FieldValidator {
	return []*v.FieldValidator{
		v.MustField("First Name", KeyFirstName, v.MinLength(1)),
		v.MustField("Last Name", KeyLastName, v.MinLength(1)),
		v.MustField("Email", KeyEmail, v.MinLength(1)),
		v.MustField("Password", KeyPassword, v.MinLength(1)),
	}
}

// Student is the manage-students screen. Neither the date of birth nor
// the join date may be after today.
func Student(today time.Time) []*v.FieldValidator {
	return []*v.FieldValidator{
		v.MustField("First Name", KeyFirstName, v.MinLength(1)),
		v.MustField("Last Name", KeyLastName, v.MinLength(1)),
		v.MustField("Email", KeyEmail, v.MinLength(1)),
		v.MustField("Password", KeyPassword, v.MinLength(1)),
		v.MustField("Date of Birth", KeyDateOfBirth, v.HasValue(), v.BeforeDate(today.AddDate(0, 0, 1))),
		v.MustField("Join Date", KeyJoinDate, v.HasValue(), v.BeforeDate(today.AddDate(0, 0, 1))),
	}
}

// Course is the manage-courses screen.
func Course() []*v.FieldValidator {
	return []*v.FieldValidator{
		v.MustField("Name", KeyName, v.MinLength(1)),
		v.MustField("Description", KeyDescription, v.MinLength(1)),
	}
}

// Module is the manage-modules screen.
func Module() []*v.FieldValidator {
	return []*v.FieldValidator{
		v.MustField("Name", KeyName, v.MinLength(1)),
		v.MustField("Description", KeyDescription, v.MinLength(1)),
		v.MustField("Lecturer", KeyLecturer, v.MinLength(1)),
	}
}

// Assessment is the manage-assessments screen. The due date may be today
// or later.
func Assessment(today time.Time) []*v.FieldValidator {
	return []*v.FieldValidator{
		v.MustField("Name", KeyName, v.MinLength(1)),
		v.MustField("Description", KeyDescription, v.MinLength(1)),
		v.MustField("Due Date", KeyDueDate, v.HasValue(), v.AfterDate(today.AddDate(0, 0, -1))),
	}
}
