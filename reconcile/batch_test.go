package reconcile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classboard/fee-engine/reconcile"
	"github.com/classboard/fee-engine/reconcile/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(enrollmentID int64, amount int64, month time.Month, year int) reconcile.PaymentItem {
	return reconcile.PaymentItem{
		EnrollmentID:  reconcile.EnrollmentID(enrollmentID),
		PaidAmount:    decimal.NewFromInt(amount),
		Month:         month,
		Year:          year,
		PaymentMethod: "Cash",
	}
}

func countPayments(t *testing.T, mem *store.Memory) int {
	t.Helper()
	payments, err := mem.ListPayments(context.Background(), reconcile.PaymentFilter{})
	require.NoError(t, err)
	return len(payments)
}

func TestSubmitBulkPayment_EmptyBatchRejected(t *testing.T) {
	// GIVEN: No line items
	// WHEN: Submitting
	// THEN: Validation error, nothing written

	engine, mem := newTestEngine(t, midMarch)

	_, err := engine.SubmitBulkPayment(context.Background(), "", nil)

	assert.ErrorIs(t, err, reconcile.ErrEmptyBatch)
	assert.True(t, reconcile.IsValidation(err))
	assert.Equal(t, 0, countPayments(t, mem))
}

func TestSubmitBulkPayment_SharedTransactionGroup(t *testing.T) {
	// GIVEN: Three line items covering three obligation months
	// WHEN: Submitting
	// THEN: All rows persist under ONE generated transaction group id

	engine, mem := newTestEngine(t, midMarch)
	seedEnrollment(mem, 1, 1, 1, date(2026, time.January, 5), fee500, reconcile.EnrollmentActive)

	persisted, err := engine.SubmitBulkPayment(context.Background(), "", []reconcile.PaymentItem{
		item(1, 500, time.January, 2026),
		item(1, 500, time.February, 2026),
		item(1, 500, time.March, 2026),
	})
	require.NoError(t, err)
	require.Len(t, persisted, 3)

	group := persisted[0].TransactionGroupID
	assert.NotEmpty(t, group)
	for _, p := range persisted {
		assert.Equal(t, group, p.TransactionGroupID)
		assert.NotZero(t, p.ID)
	}
	assert.Equal(t, 3, countPayments(t, mem))
}

func TestSubmitBulkPayment_ResolvesStudentProgramPair(t *testing.T) {
	// GIVEN: A line item carrying (student, program) instead of an
	//        enrollment id
	// WHEN: Submitting
	// THEN: The item is resolved through a single lookup before the write

	engine, mem := newTestEngine(t, midMarch)
	seedEnrollment(mem, 17, 3, 9, date(2026, time.January, 5), fee500, reconcile.EnrollmentActive)

	persisted, err := engine.SubmitBulkPayment(context.Background(), "", []reconcile.PaymentItem{
		{
			StudentID:  3,
			ProgramID:  9,
			PaidAmount: decimal.NewFromInt(500),
			Month:      time.January,
			Year:       2026,
		},
	})
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, reconcile.EnrollmentID(17), persisted[0].EnrollmentID)
}

func TestSubmitBulkPayment_UnresolvableItemAbortsWholeBatch(t *testing.T) {
	// GIVEN: Three valid line items and one with an unresolvable
	//        (student, program) pair
	// WHEN: Submitting
	// THEN: The whole batch fails before any write. Persisting 3 of 4
	//       would be a property violation.

	engine, mem := newTestEngine(t, midMarch)
	seedEnrollment(mem, 1, 1, 1, date(2026, time.January, 5), fee500, reconcile.EnrollmentActive)

	_, err := engine.SubmitBulkPayment(context.Background(), "", []reconcile.PaymentItem{
		item(1, 500, time.January, 2026),
		item(1, 500, time.February, 2026),
		item(1, 500, time.March, 2026),
		{StudentID: 999, ProgramID: 999, PaidAmount: decimal.NewFromInt(500), Month: time.April, Year: 2026},
	})

	require.Error(t, err)
	assert.True(t, reconcile.IsValidation(err))

	var itemErr *reconcile.BatchItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 3, itemErr.Index)
	assert.ErrorIs(t, err, reconcile.ErrEnrollmentNotFound)

	assert.Equal(t, 0, countPayments(t, mem), "no partial persistence")
}

func TestSubmitBulkPayment_NonPositiveAmountRejected(t *testing.T) {
	engine, mem := newTestEngine(t, midMarch)
	seedEnrollment(mem, 1, 1, 1, date(2026, time.January, 5), fee500, reconcile.EnrollmentActive)

	_, err := engine.SubmitBulkPayment(context.Background(), "", []reconcile.PaymentItem{
		item(1, 0, time.January, 2026),
	})

	assert.ErrorIs(t, err, reconcile.ErrNonPositiveAmount)
	assert.True(t, reconcile.IsValidation(err))
	assert.Equal(t, 0, countPayments(t, mem))
}

func TestSubmitBulkPayment_DuplicateKeyRejected(t *testing.T) {
	// GIVEN: A batch already submitted under an idempotency key
	// WHEN: Resubmitting the same key
	// THEN: The whole resubmission is rejected; nothing is double-recorded

	engine, mem := newTestEngine(t, midMarch)
	seedEnrollment(mem, 1, 1, 1, date(2026, time.January, 5), fee500, reconcile.EnrollmentActive)

	items := []reconcile.PaymentItem{item(1, 500, time.January, 2026)}

	_, err := engine.SubmitBulkPayment(context.Background(), "receipt-0042", items)
	require.NoError(t, err)

	_, err = engine.SubmitBulkPayment(context.Background(), "receipt-0042", items)
	assert.ErrorIs(t, err, reconcile.ErrDuplicateBatch)
	assert.True(t, reconcile.IsValidation(err))
	assert.Equal(t, 1, countPayments(t, mem))
}

func TestSubmitBulkPayment_DefaultsPaymentDateToToday(t *testing.T) {
	engine, mem := newTestEngine(t, midMarch)
	seedEnrollment(mem, 1, 1, 1, date(2026, time.January, 5), fee500, reconcile.EnrollmentActive)

	persisted, err := engine.SubmitBulkPayment(context.Background(), "", []reconcile.PaymentItem{
		item(1, 500, time.January, 2026),
	})
	require.NoError(t, err)
	assert.Equal(t, midMarch, persisted[0].PaymentDate)
}

// failingStore makes every write fail, to verify store errors surface
// unchanged instead of degrading to partial success.
type failingStore struct {
	*store.Memory
	writeErr error
}

func (f *failingStore) InsertPayments(ctx context.Context, batchKey string, rows []reconcile.Payment) ([]reconcile.Payment, error) {
	return nil, f.writeErr
}

func TestSubmitBulkPayment_StoreFailurePropagates(t *testing.T) {
	// GIVEN: A store whose write path fails
	// WHEN: Submitting a valid batch
	// THEN: The failure propagates as-is - not retried, not reclassified
	//       as a validation problem

	mem := store.NewMemory()
	mem.PutEnrollment(reconcile.Enrollment{
		ID: 1, StudentID: 1, ProgramID: 1,
		EnrollmentDate: date(2026, time.January, 5),
		Status:         reconcile.EnrollmentActive,
		MonthlyFee:     fee500,
		HasProgram:     true,
	})

	storeErr := errors.New("disk I/O error")
	engine := reconcile.NewEngine(&failingStore{Memory: mem, writeErr: storeErr})
	engine.Now = func() time.Time { return midMarch }

	_, err := engine.SubmitBulkPayment(context.Background(), "", []reconcile.PaymentItem{
		item(1, 500, time.January, 2026),
	})

	assert.ErrorIs(t, err, storeErr)
	assert.False(t, reconcile.IsValidation(err))
	assert.False(t, reconcile.IsNotFound(err))
}
