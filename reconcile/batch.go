/*
batch.go - Atomic multi-month bulk payment recording

PURPOSE:
  The only write path in the engine. Accepts a list of payment line items,
  each tagged to a specific obligation month, resolves each to an
  enrollment, and persists them as one atomically-grouped transaction.

PROTOCOL:
  1. Reject empty input with a validation error.
  2. Generate one transaction group id for the whole call.
  3. Resolve every item lacking an enrollment id via a (student, program)
     lookup. Any failure aborts the entire batch before a write is issued.
  4. Submit all prepared rows in ONE store call so the store applies them
     as a single atomic unit. Partial application must not be observable.

  A failed write is never downgraded to partial success, and no line item
  is ever silently skipped.

CONCURRENCY:
  Concurrent batch writes from different callers are not coordinated here.
  Duplicate submissions of the SAME batch are detectable through the
  optional idempotency key enforced at the store boundary.
*/
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SubmitBulkPayment validates, resolves, and persists a bulk payment. All
// persisted rows share one newly generated transaction group id.
//
// batchKey is an optional caller-supplied idempotency key; when non-empty,
// resubmitting the same key fails the whole call with ErrDuplicateBatch.
func (e *Engine) SubmitBulkPayment(ctx context.Context, batchKey string, items []PaymentItem) ([]Payment, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	groupID := uuid.NewString()
	today := e.today()

	rows := make([]Payment, 0, len(items))
	for i, item := range items {
		if !item.PaidAmount.IsPositive() {
			return nil, &BatchItemError{Index: i, StudentID: item.StudentID, ProgramID: item.ProgramID, Err: ErrNonPositiveAmount}
		}

		enrollmentID := item.EnrollmentID
		if enrollmentID == 0 {
			id, err := e.Store.ResolveEnrollment(ctx, item.StudentID, item.ProgramID)
			if err != nil {
				if IsNotFound(err) {
					return nil, &BatchItemError{Index: i, StudentID: item.StudentID, ProgramID: item.ProgramID, Err: err}
				}
				return nil, fmt.Errorf("resolve enrollment for item %d: %w", i, err)
			}
			enrollmentID = id
		}

		paymentDate := item.PaymentDate
		if paymentDate.IsZero() {
			paymentDate = today
		}

		rows = append(rows, Payment{
			EnrollmentID:       enrollmentID,
			PaidAmount:         item.PaidAmount,
			PaymentDate:        paymentDate,
			Month:              item.Month,
			Year:               item.Year,
			TransactionGroupID: groupID,
			PaymentMethod:      item.PaymentMethod,
			Remarks:            item.Remarks,
		})
	}

	persisted, err := e.Store.InsertPayments(ctx, batchKey, rows)
	if err != nil {
		return nil, err
	}
	return persisted, nil
}
