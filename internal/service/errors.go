package service

import "errors"

var (
	// ErrDuplicateEmail is returned when an account with the email already exists.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidOrExpiredToken covers verification tokens that were never issued or already consumed.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	// ErrInvalidCredentials is shared by unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified blocks signin for self-service accounts until verification.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrPostNotFound is returned for absent posts and posts the caller does not own.
	ErrPostNotFound = errors.New("post not found")
)

// ValidationError reports malformed input. Err holds the per-field details.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}
