package apperrors

import (
	"errors"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict")

// ErrStateTransition indicates that a journal entry cannot move to the requested status.
var ErrStateTransition = errors.New("invalid state transition")

// ErrConfiguration indicates missing or inconsistent setup, e.g. no account matches a required role.
var ErrConfiguration = errors.New("configuration error")

// ErrStorage indicates that the persistence layer failed to read or write.
var ErrStorage = errors.New("storage error")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError pairs one of the sentinel kinds above with a message and an optional cause.
// errors.Is matches both the kind and the cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

// NewAppError creates a new AppError of the given kind.
func NewAppError(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NewNotFoundError is a shorthand for an ErrNotFound AppError without a cause.
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Kind != nil {
		msg = e.Kind.Error() + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ValidationError carries every violated rule rather than only the first one.
type ValidationError struct {
	Problems []string
}

// NewValidationError builds a ValidationError from one or more problem descriptions.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
