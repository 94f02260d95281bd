package errors

import (
	stderrors "errors"
	"fmt"
)

// Error method implementation for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *InvariantViolation) Error() string {
	return e.Message
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func (e *DependencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Dependency, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Dependency, e.Message)
}

func (e *DependencyError) Unwrap() error {
	return e.Cause
}

// Error method implementation for StorageError
func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewInvariantViolation creates a new InvariantViolation
func NewInvariantViolation(message string) *InvariantViolation {
	return &InvariantViolation{Message: message}
}

// NewForbiddenError creates a new ForbiddenError
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// NewDependencyError creates a new DependencyError
func NewDependencyError(dependency, message string, cause error) *DependencyError {
	return &DependencyError{
		Dependency: dependency,
		Message:    message,
		Cause:      cause,
	}
}

// NewStorageError creates a new StorageError
func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{
		Message: message,
		Cause:   cause,
	}
}

// KindOf reports the kind of the first domain error found in err's chain.
// Unknown errors (including StorageError) are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var (
		validation *ValidationError
		notFound   *NotFoundError
		invariant  *InvariantViolation
		forbidden  *ForbiddenError
		dependency *DependencyError
	)
	switch {
	case stderrors.As(err, &validation):
		return KindValidation
	case stderrors.As(err, &notFound):
		return KindNotFound
	case stderrors.As(err, &invariant):
		return KindInvariant
	case stderrors.As(err, &forbidden):
		return KindForbidden
	case stderrors.As(err, &dependency):
		return KindDependency
	default:
		return KindInternal
	}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return stderrors.As(err, &notFound)
}
