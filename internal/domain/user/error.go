package user

import "errors"

var (
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrInvalidAuth      = errors.New("invalid credentials")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyExists    = errors.New("email already registered")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrSessionExpired   = errors.New("session expired, log in again")
)

type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
