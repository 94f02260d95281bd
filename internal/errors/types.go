package errors

// Kind classifies a domain error. Transport layers map each kind to a status.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindInvariant  Kind = "INVARIANT_VIOLATION"
	KindForbidden  Kind = "FORBIDDEN"
	KindDependency Kind = "DEPENDENCY_ERROR"
	KindInternal   Kind = "INTERNAL_ERROR"
)

// ValidationError represents a validation error with a field and message
type ValidationError struct {
	Field   string
	Message string
}

// NotFoundError is returned when a referenced resource does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

// InvariantViolation is returned when an operation would break the thread shape
type InvariantViolation struct {
	Message string
}

// ForbiddenError is returned when the principal may not mutate the resource
type ForbiddenError struct {
	Message string
}

// DependencyError represents a failure of an external collaborator
// (identity directory, video oracle)
type DependencyError struct {
	Dependency string
	Message    string
	Cause      error
}

// StorageError represents an error during storage operations
type StorageError struct {
	Message string
	Cause   error
}
