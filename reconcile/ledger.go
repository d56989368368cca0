/*
ledger.go - Per-enrollment ledger construction

PURPOSE:
  Combines the obligation month schedule with a student's recorded
  payments (grouped by obligation period) to produce a per-month status
  and a running paid-through marker.

CONTRACT:
  - Due = max(0, Fee - Paid) per month; excess never rolls forward.
  - Months strictly after today report Due = 0 and IsFuture = true
    regardless of Paid, so the UI can show advance payments without
    implying current arrears.
  - TotalDue sums Due over non-future entries only.
  - PaidUpTo is the latest fully paid month in chronological scan order.
    It is gap-tolerant: paying March in full moves the marker to March
    even when February is still due. (Whether it should instead mean the
    longest unbroken prefix of paid months is an open product question;
    the documented behavior is implemented.)
  - An enrollment with no resolvable program yields ErrProgramNotFound;
    a zero fee yields an empty result rather than an all-Paid ledger.

SEE ALSO:
  - accrual.go: Schedule generation
  - stats.go: The lifetime-total form of the same scan
*/
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BuildLedger reconciles one enrollment's obligation schedule against its
// recorded payments. Calling it twice with no intervening writes returns
// identical results: it is a pure function of store state.
func (e *Engine) BuildLedger(ctx context.Context, id EnrollmentID) (*LedgerResult, error) {
	enrollment, err := e.Store.GetEnrollment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load enrollment %d: %w", id, err)
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}
	if !enrollment.HasProgram {
		return nil, ErrProgramNotFound
	}

	payments, err := e.Store.ListPayments(ctx, PaymentFilter{EnrollmentID: &id})
	if err != nil {
		return nil, fmt.Errorf("load payments for enrollment %d: %w", id, err)
	}

	return ComputeLedger(enrollment.EnrollmentDate, enrollment.MonthlyFee, payments, e.today()), nil
}

// ComputeLedger is the pure form of BuildLedger: no store access, fully
// determined by its arguments.
func ComputeLedger(enrollmentDate time.Time, monthlyFee decimal.Decimal, payments []Payment, today time.Time) *LedgerResult {
	result := &LedgerResult{TotalDue: decimal.Zero}

	// A free or fee-less enrollment has nothing to reconcile. Returning an
	// empty ledger beats an all-Paid one built against a zero fee.
	if !monthlyFee.IsPositive() {
		return result
	}

	paidByMonth := make(map[MonthKey]decimal.Decimal)
	obligations := make([]MonthKey, 0, len(payments))
	for _, p := range payments {
		k := p.Obligation()
		paidByMonth[k] = paidByMonth[k].Add(p.PaidAmount)
		obligations = append(obligations, k)
	}

	currentMonth := MonthOf(today)

	for _, month := range ObligationMonths(enrollmentDate, obligations, today) {
		paid := paidByMonth[month]
		isFuture := month.After(currentMonth)

		due := decimal.Zero
		if !isFuture {
			due = decimal.Max(decimal.Zero, monthlyFee.Sub(paid))
		}

		var status LedgerStatus
		switch {
		case paid.GreaterThanOrEqual(monthlyFee):
			status = StatusPaid
			m := month
			result.PaidUpTo = &m
		case paid.IsPositive():
			status = StatusPartial
		default:
			status = StatusUnpaid
		}

		result.Entries = append(result.Entries, LedgerEntry{
			Month:    month.Month,
			Year:     month.Year,
			Fee:      monthlyFee,
			Paid:     paid,
			Due:      due,
			Status:   status,
			IsFuture: isFuture,
		})
		result.TotalDue = result.TotalDue.Add(due)
	}

	return result
}
