// Package console is the terminal front end: it prompts for form input,
// prints validation and login dialogs, and runs the interactive shell.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/atinyakov/sms/internal/forms"
	"github.com/atinyakov/sms/internal/validation"
)

// verbatimKeys are kept exactly as typed; every other answer is trimmed.
var verbatimKeys = map[string]bool{
	forms.KeyPassword: true,
}

// Prompter reads answers line by line from in and writes prompts to out.
// Input is scanned on a background goroutine so that a pending read can be
// abandoned when the context is cancelled.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	once  sync.Once
	lines chan string
}

// NewPrompter creates a Prompter.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, lines: make(chan string)}
}

func (p *Prompter) scan() {
	defer close(p.lines)
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
}

// Line prints prompt and returns the next input line. It returns io.EOF
// once the input is exhausted and ctx.Err() if ctx is done first.
func (p *Prompter) Line(ctx context.Context, prompt string) (string, error) {
	p.once.Do(func() { go p.scan() })
	fmt.Fprint(p.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// Form asks for every field in order and collects the answers keyed by
// field key. Date fields show the expected format. Answers are trimmed
// except for passwords.
func (p *Prompter) Form(ctx context.Context, fields []*validation.FieldValidator) (validation.Form, error) {
	form := validation.Form{}
	for _, f := range fields {
		label := f.Label()
		if f.Family() == validation.FamilyDate {
			label += " (dd/mm/yyyy)"
		}
		answer, err := p.Line(ctx, label+": ")
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if !verbatimKeys[f.Key()] {
			answer = strings.TrimSpace(answer)
		}
		form[f.Key()] = answer
	}
	return form, nil
}
