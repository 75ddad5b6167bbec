package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals that a requested entity does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden signals that the caller may not mutate the entity
	ErrForbidden = errors.New("not authorized")
)

// NotFoundError is an ErrNotFound carrying a user facing message
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// AuthorizationError is an ErrForbidden carrying a user facing message
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func (e *AuthorizationError) Is(target error) bool { return target == ErrForbidden }

// NewAuthorizationError creates an AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// ValidationError lists every field problem of a rejected input
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// NewValidationError creates a ValidationError from one or more messages
func NewValidationError(messages ...string) error {
	return &ValidationError{Messages: messages}
}

// DuplicateKeyError signals a unique constraint violation on Field
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// CastError signals a malformed identifier
type CastError struct {
	Value string
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %v", e.Value, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// BadRequestError is a business rule rejection reported with status 400
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

// NewBadRequestError creates a BadRequestError
func NewBadRequestError(message string) error {
	return &BadRequestError{Message: message}
}
