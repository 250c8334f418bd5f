package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrValidationFailed   = errors.New("validation failed")
	ErrAdminRejected      = errors.New("incorrect password")
	ErrSubmitInFlight     = errors.New("submission already in progress")
)

// A FieldProblem describes one rejected input field.
type FieldProblem struct {
	Field   string
	Message string
}

// A ValidationError lists every rejected field of a submission.
//
// It matches [ErrValidationFailed] with errors.Is.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Add(field, message string) {
	e.Problems = append(e.Problems, FieldProblem{field, message})
}

// Err returns nil when no problem was added.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Fields maps a field name to its problem message.
func (e *ValidationError) Fields() map[string]string {
	m := make(map[string]string, len(e.Problems))
	for _, p := range e.Problems {
		m[p.Field] = p.Message
	}
	return m
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Field + ": " + p.Message
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
