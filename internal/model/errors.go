package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAccount is returned when an account does not appear in the fiscal year's journal.
	ErrInvalidAccount = errors.New("invalid account")
	// ErrInvalidID is returned for an unknown fiscal year id, or one owned by someone else.
	ErrInvalidID = errors.New("invalid id")
	// ErrAccountClosed is returned when a closed owner attempts a fiscal-year mutation.
	ErrAccountClosed = errors.New("your account has been closed")
)

// NoIndex marks a FieldError that does not belong to a batch element.
const NoIndex = -1

// Field error reasons.
const (
	ReasonMissing       = "not submitted"
	ReasonEmpty         = "empty"
	ReasonInvalid       = "invalid"
	ReasonInvalidAmount = "invalid amount"
	ReasonInvalidDate   = "invalid date"
)

// FieldError describes malformed or missing caller input.
type FieldError struct {
	Field  string
	Index  int
	Reason string
}

// NewFieldError returns a FieldError that is not tied to a batch index.
func NewFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Index: NoIndex, Reason: reason}
}

func (e *FieldError) Error() string {
	if e.Index == NoIndex {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("entry %d: %s: %s", e.Index, e.Field, e.Reason)
}

// DuplicateNameError is returned when a fiscal year name is already taken by the owner.
type DuplicateNameError struct {
	Name string
	ID   int64 // the existing fiscal year
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("fiscal year %q already exists (id %d)", e.Name, e.ID)
}

// StorageError wraps a persistence failure. It is fatal for the current
// operation and never retried by the engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
