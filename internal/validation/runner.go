package validation

import (
	"fmt"
	"strings"
)

// Outcome is the result of one validation run.
type Outcome struct {
	Valid  bool
	Errors []string
}

func newOutcome(errs []string) Outcome {
	return Outcome{Valid: len(errs) == 0, Errors: append([]string(nil), errs...)}
}

// Tooltip formats the errors the way a flagged input shows them:
// "Error: (<count>)" followed by a blank line and one error per line.
// It returns "" for a valid outcome.
func (o Outcome) Tooltip() string {
	if o.Valid {
		return ""
	}
	return fmt.Sprintf("Error: (%d)\n\n%s", len(o.Errors), strings.Join(o.Errors, "\n"))
}

// Err returns nil for a valid outcome and a *ValidationError otherwise.
func (o Outcome) Err() error {
	if o.Valid {
		return nil
	}
	return &ValidationError{Messages: append([]string(nil), o.Errors...)}
}

// ValidationError reports every check that failed in one run.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// FieldOutcome is the outcome of one field within a form run.
type FieldOutcome struct {
	Key   string
	Label string
	Outcome
}

// Run validates form against every validator, without stopping at the
// first failure, and returns the combined outcome. Errors are ordered by
// validator, then by check.
func Run(validators []*FieldValidator, form FormState) Outcome {
	var errs []string
	for _, fo := range RunFields(validators, form) {
		errs = append(errs, fo.Errors...)
	}
	return newOutcome(errs)
}

// RunFields is like Run but keeps the outcome of each field, in validator
// order, so a caller can flag individual inputs.
func RunFields(validators []*FieldValidator, form FormState) []FieldOutcome {
	out := make([]FieldOutcome, 0, len(validators))
	for _, v := range validators {
		out = append(out, FieldOutcome{Key: v.Key(), Label: v.Label(), Outcome: v.Validate(form)})
	}
	return out
}
