// Package errors provides error types and error codes for the storage packages.
// This is a leaf package with no internal dependencies, designed to be imported
// by the storage contract, the heap tier and the registry without causing
// circular imports.
//
// Import graph: errors <- storage <- heap <- registry
package errors

import (
	"fmt"
)

// ErrorCode represents the type of error that occurred.
type ErrorCode int

const (
	// ErrInvalidState indicates an alias-scoped operation was attempted while
	// the registry was not started.
	ErrInvalidState ErrorCode = iota + 1

	// ErrDuplicateAlias indicates a store is already registered under the alias.
	ErrDuplicateAlias

	// ErrTypeMismatch indicates a lookup requested key/value types that differ
	// from the ones recorded when the store was created.
	ErrTypeMismatch

	// ErrListenerFailed indicates a mutation listener returned an error.
	// The mutation itself has already been applied.
	ErrListenerFailed

	// ErrNotSupported indicates the capability is not available in this tier.
	ErrNotSupported

	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument
)

// String returns a human-readable name for the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrInvalidState:
		return "InvalidState"
	case ErrDuplicateAlias:
		return "DuplicateAlias"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrListenerFailed:
		return "ListenerFailed"
	case ErrNotSupported:
		return "NotSupported"
	case ErrInvalidArgument:
		return "InvalidArgument"
	default:
		return fmt.Sprintf("Unknown(%d)", e)
	}
}

// StorageError represents a storage or registry error with an error code.
type StorageError struct {
	Code    ErrorCode
	Message string
	Alias   string
	Err     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Alias != "" {
		msg = fmt.Sprintf("%s (alias: %s)", msg, e.Alias)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *StorageError with the same code.
// This lets callers match on the sentinel values below with errors.Is.
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is matching by code.
var (
	InvalidState    = &StorageError{Code: ErrInvalidState}
	DuplicateAlias  = &StorageError{Code: ErrDuplicateAlias}
	TypeMismatch    = &StorageError{Code: ErrTypeMismatch}
	ListenerFailed  = &StorageError{Code: ErrListenerFailed}
	NotSupported    = &StorageError{Code: ErrNotSupported}
	InvalidArgument = &StorageError{Code: ErrInvalidArgument}
)

// ============================================================================
// Factory Functions
// ============================================================================

// NewInvalidStateError creates an InvalidState error naming the current state.
func NewInvalidStateError(state string) *StorageError {
	return &StorageError{
		Code:    ErrInvalidState,
		Message: fmt.Sprintf("invalid lifecycle state: %s which is not started", state),
	}
}

// NewInvalidTransitionError creates an InvalidState error for a lifecycle
// transition that is not allowed from the current state.
func NewInvalidTransitionError(operation, state string) *StorageError {
	return &StorageError{
		Code:    ErrInvalidState,
		Message: fmt.Sprintf("cannot %s from lifecycle state %s", operation, state),
	}
}

// NewDuplicateAliasError creates a DuplicateAlias error.
func NewDuplicateAliasError(alias string) *StorageError {
	return &StorageError{
		Code:    ErrDuplicateAlias,
		Message: "duplicated store for alias",
		Alias:   alias,
	}
}

// NewTypeMismatchError creates a TypeMismatch error describing both type pairs.
func NewTypeMismatchError(alias, wantKey, wantValue, gotKey, gotValue string) *StorageError {
	return &StorageError{
		Code: ErrTypeMismatch,
		Message: fmt.Sprintf("store holds <%s, %s>, requested <%s, %s>",
			wantKey, wantValue, gotKey, gotValue),
		Alias: alias,
	}
}

// NewListenerError wraps an error returned by a mutation listener.
func NewListenerError(event string, index int, err error) *StorageError {
	return &StorageError{
		Code:    ErrListenerFailed,
		Message: fmt.Sprintf("listener %d failed on %s", index, event),
		Err:     err,
	}
}

// NewNotSupportedError creates a NotSupported error.
func NewNotSupportedError(operation string) *StorageError {
	return &StorageError{
		Code:    ErrNotSupported,
		Message: fmt.Sprintf("%s is not supported", operation),
	}
}

// NewInvalidArgumentError creates an InvalidArgument error.
func NewInvalidArgumentError(message string) *StorageError {
	return &StorageError{
		Code:    ErrInvalidArgument,
		Message: message,
	}
}

// ============================================================================
// Error Type Checking Helpers
// ============================================================================

func hasCode(err error, code ErrorCode) bool {
	for err != nil {
		if storeErr, ok := err.(*StorageError); ok && storeErr.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsInvalidStateError returns true if the error is a lifecycle violation.
func IsInvalidStateError(err error) bool {
	return hasCode(err, ErrInvalidState)
}

// IsDuplicateAliasError returns true if the error is a duplicate alias.
func IsDuplicateAliasError(err error) bool {
	return hasCode(err, ErrDuplicateAlias)
}

// IsTypeMismatchError returns true if the error is a type mismatch.
func IsTypeMismatchError(err error) bool {
	return hasCode(err, ErrTypeMismatch)
}

// IsListenerError returns true if the error came from a mutation listener.
func IsListenerError(err error) bool {
	return hasCode(err, ErrListenerFailed)
}

// IsNotSupportedError returns true if the error is an unsupported capability.
func IsNotSupportedError(err error) bool {
	return hasCode(err, ErrNotSupported)
}
