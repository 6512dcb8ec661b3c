// Package validation provides rule-based form validation: single-field
// checks, validators that bind checks to a named input, and a runner that
// aggregates every failure of a form into one outcome.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the dd/mm/yyyy layout used for date input and for the
// boundary dates embedded in error messages.
const DateLayout = "02/01/2006"

// symbols is the punctuation set accepted by ContainsSymbol.
const symbols = `!@#$%^&*(),.?":{}|<>`

// Family groups checks by the kind of value they examine.
type Family int

const (
	// FamilyText checks examine the raw string of a text input.
	FamilyText Family = iota
	// FamilyDate checks examine an optional calendar date.
	FamilyDate
)

// String returns a readable family name.
func (f Family) String() string {
	switch f {
	case FamilyText:
		return "text"
	case FamilyDate:
		return "date"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Kind tags the variant held by a Check.
type Kind int

const (
	// KindMinLength requires at least n characters.
	KindMinLength Kind = iota
	// KindContainsUppercase requires a character in A-Z.
	KindContainsUppercase
	// KindContainsDigit requires a character in 0-9.
	KindContainsDigit
	// KindContainsSymbol requires a character from the symbol set.
	KindContainsSymbol
	// KindHasValue requires a date to be set.
	KindHasValue
	// KindBeforeDate requires a date strictly before the boundary.
	KindBeforeDate
	// KindAfterDate requires a date strictly after the boundary.
	KindAfterDate
)

// Check is a single pass/fail rule over one field value together with the
// message shown when it fails. The zero value is not useful; build checks
// with the constructors below. Checks are immutable and safe to share.
type Check struct {
	kind     Kind
	n        int
	boundary time.Time
}

// MinLength returns a text check that passes when the value holds at
// least n characters.
func MinLength(n int) Check {
	return Check{kind: KindMinLength, n: n}
}

// ContainsUppercase returns a text check that passes when the value holds
// at least one character in A-Z.
func ContainsUppercase() Check {
	return Check{kind: KindContainsUppercase}
}

// ContainsDigit returns a text check that passes when the value holds at
// least one character in 0-9.
func ContainsDigit() Check {
	return Check{kind: KindContainsDigit}
}

// ContainsSymbol returns a text check that passes when the value holds at
// least one character from !@#$%^&*(),.?":{}|<>.
func ContainsSymbol() Check {
	return Check{kind: KindContainsSymbol}
}

// HasValue returns a date check that passes when a date is set.
func HasValue() Check {
	return Check{kind: KindHasValue}
}

// BeforeDate returns a date check that passes when the date is set and
// falls strictly before d. Only the calendar day of d is used.
func BeforeDate(d time.Time) Check {
	return Check{kind: KindBeforeDate, boundary: day(d)}
}

// AfterDate returns a date check that passes when the date is set and
// falls strictly after d. Only the calendar day of d is used.
func AfterDate(d time.Time) Check {
	return Check{kind: KindAfterDate, boundary: day(d)}
}

// Kind reports the variant of c.
func (c Check) Kind() Kind { return c.kind }

// Family reports which kind of value c examines.
func (c Check) Family() Family {
	switch c.kind {
	case KindHasValue, KindBeforeDate, KindAfterDate:
		return FamilyDate
	default:
		return FamilyText
	}
}

// ValidText evaluates c against a text value. Date checks never accept a
// text value.
func (c Check) ValidText(text string) bool {
	return c.eval(text, nil)
}

// ValidDate evaluates c against an optional date; nil means no date was
// entered. Text checks never accept a date value.
func (c Check) ValidDate(date *time.Time) bool {
	return c.eval("", date)
}

func (c Check) eval(text string, date *time.Time) bool {
	switch c.kind {
	case KindMinLength:
		return len([]rune(text)) >= c.n
	case KindContainsUppercase:
		return strings.ContainsFunc(text, func(r rune) bool { return r >= 'A' && r <= 'Z' })
	case KindContainsDigit:
		return strings.ContainsFunc(text, func(r rune) bool { return r >= '0' && r <= '9' })
	case KindContainsSymbol:
		return strings.ContainsAny(text, symbols)
	case KindHasValue:
		return date != nil
	case KindBeforeDate:
		return date != nil && day(*date).Before(c.boundary)
	case KindAfterDate:
		return date != nil && day(*date).After(c.boundary)
	}
	return false
}

// Message returns the human-readable failure message of c.
func (c Check) Message() string {
	switch c.kind {
	case KindMinLength:
		if c.n == 1 {
			return "Cannot be empty."
		}
		return fmt.Sprintf("Must be at least %d characters long.", c.n)
	case KindContainsUppercase:
		return "Must contain at least one capital letter."
	case KindContainsDigit:
		return "Must contain at least one number."
	case KindContainsSymbol:
		return "Must contain at least one symbol."
	case KindHasValue:
		return "Date cannot be empty."
	case KindBeforeDate:
		return "Must be before " + c.boundary.Format(DateLayout)
	case KindAfterDate:
		return "Must be after " + c.boundary.Format(DateLayout)
	}
	return "Invalid value."
}

// day truncates t to midnight UTC of its own calendar day, so that dates
// from different locations compare by day only.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
