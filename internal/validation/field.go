package validation

import (
	"errors"
	"fmt"
)

// ErrMixedChecks is returned when a field validator is given both text and
// date checks.
var ErrMixedChecks = errors.New("validation: text and date checks cannot be mixed")

// FieldValidator binds an ordered list of same-family checks to one input.
// It keeps the errors of its last run; they are replaced, not accumulated,
// on every call to Validate.
type FieldValidator struct {
	label  string
	key    string
	family Family
	checks []Check
	errs   []string
}

// NewField builds a validator for the input stored under key. label is
// the user-facing name that prefixes every error message.
func NewField(label, key string, checks ...Check) (*FieldValidator, error) {
	v := &FieldValidator{label: label, key: key, checks: append([]Check(nil), checks...)}
	for i, c := range checks {
		if i == 0 {
			v.family = c.Family()
			continue
		}
		if c.Family() != v.family {
			return nil, fmt.Errorf("field %q: %w", label, ErrMixedChecks)
		}
	}
	return v, nil
}

// MustField is like NewField but panics on mixed checks. It is meant for
// form definitions that are fixed at compile time.
func MustField(label, key string, checks ...Check) *FieldValidator {
	v, err := NewField(label, key, checks...)
	if err != nil {
		panic(err)
	}
	return v
}

// Label returns the user-facing field name.
func (v *FieldValidator) Label() string { return v.label }

// Key returns the lookup key of the bound input.
func (v *FieldValidator) Key() string { return v.key }

// Family returns the family of the validator's checks.
func (v *FieldValidator) Family() Family { return v.family }

// Validate evaluates every check against the current value of the bound
// input, in order, and returns the outcome of this run.
func (v *FieldValidator) Validate(form FormState) Outcome {
	v.errs = v.errs[:0]

	if len(v.checks) > 0 {
		switch v.family {
		case FamilyText:
			text := form.Text(v.key)
			for _, c := range v.checks {
				if !c.ValidText(text) {
					v.errs = append(v.errs, v.label+": "+c.Message())
				}
			}
		case FamilyDate:
			date := form.Date(v.key)
			for _, c := range v.checks {
				if !c.ValidDate(date) {
					v.errs = append(v.errs, v.label+": "+c.Message())
				}
			}
		}
	}

	return newOutcome(v.errs)
}

// Errors returns a copy of the errors found by the last run.
func (v *FieldValidator) Errors() []string {
	return append([]string(nil), v.errs...)
}
