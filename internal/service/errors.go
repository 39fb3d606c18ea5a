package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrNotFound           = errors.New("record not found")
)

// InputError carries a message that is safe to show to the client. It
// matches ErrInvalidInput under errors.Is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(format string, args ...interface{}) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// inputError wraps a validation failure, capitalized for display.
func inputError(err error) error {
	return &InputError{Message: capitalize(err.Error())}
}

// capitalize upper-cases the first byte of a validation message for display.
func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	b := []byte(msg)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
