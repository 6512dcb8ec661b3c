package validation

import (
	"strings"
	"time"
)

// FormState exposes the current values of a form's inputs by key.
type FormState interface {
	// Text returns the raw text of the input, or "" if it is unknown.
	Text(key string) string
	// Date returns the date held by the input, or nil if it is unset.
	Date(key string) *time.Time
}

// Form is a FormState over raw user input. Date inputs hold their value
// as dd/mm/yyyy text.
type Form map[string]string

// Text implements FormState.
func (f Form) Text(key string) string {
	return f[key]
}

// Date implements FormState. Empty or malformed input reads as unset.
func (f Form) Date(key string) *time.Time {
	raw := strings.TrimSpace(f[key])
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// SetDate stores d under key in dd/mm/yyyy form.
func (f Form) SetDate(key string, d time.Time) {
	f[key] = d.Format(DateLayout)
}
