/*
store.go - Persistence interface consumed by the engine

PURPOSE:
  Defines the interface between the reconciliation logic and the database.
  The engine is stateless: every operation reads a snapshot through this
  interface and computes a pure function of it. Different implementations
  can use SQLite, PostgreSQL, or in-memory storage.

WRITE PATH:
  InsertPayments is the ONLY write the engine performs. The store must
  apply the whole call as a single atomic unit: partial application (some
  months recorded, others not) must not be observable to a reader. The
  engine performs no compensation across partial store failures; a failure
  surfaces immediately to the caller.

IDEMPOTENCE:
  InsertPayments takes an optional batch key. A non-empty key that was
  already used rejects the whole call with ErrDuplicateBatch, making
  duplicate or overlapping bulk submissions detectable instead of relying
  on caller discipline. There is deliberately NO uniqueness over
  (enrollment, month, year): multiple partial payments for the same
  obligation month are a supported shape.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - reconcile/store/memory.go: In-memory for testing

SEE ALSO:
  - batch.go: The only caller of InsertPayments
  - ledger.go, stats.go: Read-side consumers
*/
package reconcile

import "context"

// =============================================================================
// FILTERS
// =============================================================================

// EnrollmentFilter narrows ListEnrollments. Nil fields match everything.
type EnrollmentFilter struct {
	StudentID *StudentID
	ProgramID *ProgramID
	Status    *EnrollmentStatus
}

// PaymentFilter narrows ListPayments. Nil fields match everything.
type PaymentFilter struct {
	EnrollmentID *EnrollmentID
}

// =============================================================================
// STORE - Record store consumed by the engine
// =============================================================================

// Store is the record store the engine reads from and writes to. It is
// injected into the engine explicitly; there is no shared process-wide
// client.
type Store interface {
	// GetEnrollment returns the enrollment with its program fee joined in,
	// or (nil, nil) when absent.
	GetEnrollment(ctx context.Context, id EnrollmentID) (*Enrollment, error)

	// ListEnrollments returns enrollments matching the filter, fee joined in.
	ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error)

	// ListPrograms returns all programs with batch names joined in.
	ListPrograms(ctx context.Context) ([]Program, error)

	// ListPayments returns payments matching the filter.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// InsertPayments persists all rows as one atomic unit and returns the
	// persisted rows with ids assigned. A non-empty batchKey that was seen
	// before fails the whole call with ErrDuplicateBatch.
	InsertPayments(ctx context.Context, batchKey string, rows []Payment) ([]Payment, error)

	// ResolveEnrollment maps a (student, program) pair to its enrollment id.
	// Returns ErrEnrollmentNotFound when no such enrollment exists.
	ResolveEnrollment(ctx context.Context, studentID StudentID, programID ProgramID) (EnrollmentID, error)
}
