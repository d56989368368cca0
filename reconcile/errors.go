/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Validation errors - rejected before any write, fully recoverable by
     the caller correcting input (empty batch, non-positive amount,
     unresolved student/program pair, duplicate batch submission)
  2. Not-found errors - an absent enrollment or program; callers get an
     empty/absent result rather than a placeholder ledger
  3. Store errors - read/write failures in the external store, propagated
     unchanged (wrapped with %w), never retried, never partially applied

USAGE:
  The API layer distinguishes categories so clients can render
  "fix your input" versus "try again later":

    if reconcile.IsValidation(err) { ... 400 ... }
    if reconcile.IsNotFound(err)   { ... 404 ... }
*/
package reconcile

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyBatch is returned when a bulk payment carries no line items.
	ErrEmptyBatch = errors.New("bulk payment: no line items")

	// ErrNonPositiveAmount is returned when a line item's amount is zero or
	// negative.
	ErrNonPositiveAmount = errors.New("paid amount must be positive")

	// ErrEnrollmentNotFound is returned when an enrollment cannot be located,
	// either by id or by (student, program) pair.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrProgramNotFound is returned when an enrollment's program is absent.
	ErrProgramNotFound = errors.New("program not found")

	// ErrDuplicateBatch is returned when a bulk payment's idempotency key was
	// already used. The whole submission is rejected; nothing is written.
	ErrDuplicateBatch = errors.New("duplicate batch submission")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// BatchItemError reports which bulk payment line item failed validation or
// resolution. Any item error aborts the entire batch before a write is
// issued.
type BatchItemError struct {
	Index     int
	StudentID StudentID
	ProgramID ProgramID
	Err       error
}

func (e *BatchItemError) Error() string {
	if e.StudentID != 0 || e.ProgramID != 0 {
		return fmt.Sprintf("item %d (student %d, program %d): %v",
			e.Index, e.StudentID, e.ProgramID, e.Err)
	}
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid caller input.
// A BatchItemError counts as validation even when it wraps
// ErrEnrollmentNotFound: an unresolvable line item is the caller's input to
// fix.
func IsValidation(err error) bool {
	var itemErr *BatchItemError
	if errors.As(err, &itemErr) {
		return true
	}
	return errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrDuplicateBatch)
}

// IsNotFound returns true if the error indicates a missing record.
// Check IsValidation first: batch item errors wrap not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrProgramNotFound)
}
