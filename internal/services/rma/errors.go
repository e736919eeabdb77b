package rma

import "fmt"

// ValidationError reports a missing or malformed field. The field name is
// included so the caller knows exactly what to fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError covers both unknown ids and records outside the caller's
// access scope. The two are deliberately indistinguishable so callers
// cannot probe for the existence of records they may not see.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found or access denied"
}

// AuthorizationError means the caller is authenticated but lacks the role
// required for the operation.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ConflictError marks a retryable uniqueness collision (e.g. two creates
// racing for the same rmaNumber).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
