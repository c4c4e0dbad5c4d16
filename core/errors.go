package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// AuthenticationError indicates bad credentials or an expired/rejected session.
type AuthenticationError struct {
	Message string
}

func (err AuthenticationError) Error() string {
	if err.Message == "" {
		return "authentication failed"
	}
	return err.Message
}

func IsAuthenticationError(err error) bool {
	_, ok := errors.Cause(err).(AuthenticationError)
	return ok
}

// NetworkError indicates that a remote collaborator could not be reached.
type NetworkError struct {
	Op  string
	Err error
}

func (err NetworkError) Error() string {
	return fmt.Sprintf("could not reach the server (%s): %v", err.Op, err.Err)
}

func (err NetworkError) Unwrap() error { return err.Err }

func IsNetworkError(err error) bool {
	_, ok := errors.Cause(err).(NetworkError)
	return ok
}

// TokenDecodeError indicates a malformed or unparseable access token.
// It never escapes an authentication check; callers treat it as "not authenticated".
type TokenDecodeError struct {
	Err error
}

func (err TokenDecodeError) Error() string {
	return fmt.Sprintf("decoding access token: %v", err.Err)
}

func (err TokenDecodeError) Unwrap() error { return err.Err }

func IsTokenDecodeError(err error) bool {
	_, ok := errors.Cause(err).(TokenDecodeError)
	return ok
}
