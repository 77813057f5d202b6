// Package apperr defines the error taxonomy the engine reports to callers.
// Every business failure wraps one of the sentinel errors below so handlers
// can branch with errors.Is and still pull diagnostic payloads out with
// errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
)

// NotFoundError reports a missing entity or one outside the caller's
// organization scope.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a NotFoundError from an entity name and any reference.
func NotFound(entity string, ref any) error {
	return &NotFoundError{Entity: entity, Ref: fmt.Sprint(ref)}
}

// InvalidStateError reports an operation attempted on an entity not in the
// required state, e.g. approving a non-pending request or re-marking a paid
// ledger entry.
type InvalidStateError struct {
	Entity string
	Ref    string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.Ref, e.Reason)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InvalidState builds an InvalidStateError.
func InvalidState(entity string, ref any, reason string) error {
	return &InvalidStateError{Entity: entity, Ref: fmt.Sprint(ref), Reason: reason}
}

// ConflictError reports a uniqueness violation (duplicate SKU/barcode or a
// duplicate pending creation request).
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflict builds a ConflictError.
func Conflict(field, value string) error {
	return &ConflictError{Field: field, Value: value}
}

// InsufficientStockError carries the offending SKU plus both quantities so
// the caller can act without a follow-up query.
type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for SKU %s: available %d, requested %d",
		e.SKU, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InsufficientStock builds an InsufficientStockError.
func InsufficientStock(sku string, available, requested int) error {
	return &InsufficientStockError{SKU: sku, Available: available, Requested: requested}
}

// ValidationError reports malformed input before any persistent mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
