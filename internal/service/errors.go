package service

import "fmt"

// AuthErrorKind classifies why a login attempt failed.
type AuthErrorKind int

const (
	// KindEmptyInput means the email or password was left blank.
	KindEmptyInput AuthErrorKind = iota + 1
	// KindInvalidCredentials means no account matched the credentials.
	KindInvalidCredentials
	// KindStorageFailure means an identity store could not be queried.
	KindStorageFailure
)

func (k AuthErrorKind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty input"
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindStorageFailure:
		return "storage failure"
	default:
		return fmt.Sprintf("AuthErrorKind(%d)", int(k))
	}
}

// AuthError is returned by AuthService.Authenticate. Err holds the
// underlying cause for storage failures.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

// Sentinels for errors.Is; any *AuthError of the same kind matches.
// Authenticate never returns these values themselves.
var (
	ErrEmptyInput         = &AuthError{Kind: KindEmptyInput}
	ErrInvalidCredentials = &AuthError{Kind: KindInvalidCredentials}
	ErrStorageFailure     = &AuthError{Kind: KindStorageFailure}
)

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authenticate: %s: %v", e.Kind, e.Err)
	}
	return "authenticate: " + e.Kind.String()
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches any *AuthError with the same kind.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// Message returns the text shown to the user. It does not say whether the
// email belongs to an account.
func (e *AuthError) Message() string {
	switch e.Kind {
	case KindEmptyInput:
		return "Enter password and username first"
	case KindInvalidCredentials:
		return "Invalid Login Details!"
	default:
		return "Login error occurred! Please retry."
	}
}
