package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/sms/internal/service"
	"github.com/atinyakov/sms/internal/validation"
)

// RenderOutcome prints the validation dialog for an invalid outcome and
// nothing for a valid one.
func RenderOutcome(w io.Writer, o validation.Outcome) {
	if o.Valid {
		return
	}
	var b strings.Builder
	b.WriteString("[Validation Error]\n")
	b.WriteString("Please fix the following issues:\n")
	for _, e := range o.Errors {
		b.WriteString("• " + e + "\n")
	}
	fmt.Fprint(w, b.String())
}

// RenderFieldFlags prints the tooltip of every invalid field, indented
// under the field label.
func RenderFieldFlags(w io.Writer, fields []validation.FieldOutcome) {
	for _, f := range fields {
		if f.Valid {
			continue
		}
		fmt.Fprintf(w, "! %s\n", f.Label)
		for _, line := range strings.Split(f.Tooltip(), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

// RenderAuthError prints the login error dialog.
func RenderAuthError(w io.Writer, err error) {
	msg := service.ErrStorageFailure.Message()
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		msg = authErr.Message()
	}
	fmt.Fprintf(w, "[Login Error]\n%s\n", msg)
}

// renderError prints err as a validation dialog when it carries validation
// messages, or as a one-line error otherwise.
func renderError(w io.Writer, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		RenderOutcome(w, validation.Outcome{Valid: false, Errors: verr.Messages})
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
