package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/sms/internal/forms"
	"github.com/atinyakov/sms/internal/validation"
)

// ErrNotFound is returned when an edit or delete names a record that does
// not exist.
var ErrNotFound = errors.New("record not found")

// formID reads the record id of an edit form. The form must already have
// passed validation, so the id is present.
func formID(form validation.Form) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(form.Text(forms.KeyID)))
	if err != nil || id <= 0 {
		return 0, &validation.ValidationError{Messages: []string{"Id: Must be a number."}}
	}
	return id, nil
}

// changed turns the result of an update or delete into ErrNotFound when no
// row matched.
func changed(n int64, err error, what string, id int) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
