/*
stats.go - Institution-wide and per-program dues aggregation

PURPOSE:
  Runs the ledger logic in lifetime-total form across all enrollments to
  produce dashboard figures.

THE CRITICAL INVARIANT:
  Lifetime dues are computed PER ENROLLMENT, then summed. Never as one
  institution-wide subtraction (expected lifetime minus total paid): one
  student's overpayment must not offset another's shortfall. A student who
  overpaid by 1000 and one who underpaid by 1000 yield a due of 1000, not 0.

TWO AXES:
  Revenue figures are cash-received (payment_date falls in the current
  calendar month). Due figures are obligation-period based (month/year tags
  on payments). These are intentionally different.

SKIP RULES:
  - Inactive enrollments stop contributing to dues; their payment history
    still counts toward revenue.
  - An enrollment with no resolvable program or a zero fee is non-billable
    and is skipped from due computation, but still counts toward program
    headcounts.
*/
package reconcile

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// FinanceStats computes the four institution-wide figures in one scan of
// enrollments and payments.
func (e *Engine) FinanceStats(ctx context.Context) (*FinanceStats, error) {
	payments, err := e.Store.ListPayments(ctx, PaymentFilter{})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	enrollments, err := e.Store.ListEnrollments(ctx, EnrollmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}

	today := e.today()
	currentMonth := MonthOf(today)

	stats := &FinanceStats{
		TotalRevenue:     decimal.Zero,
		RevenueThisMonth: decimal.Zero,
		DueTotal:         decimal.Zero,
		DueThisMonth:     decimal.Zero,
	}

	byEnrollment := make(map[EnrollmentID][]Payment)
	for _, p := range payments {
		stats.TotalRevenue = stats.TotalRevenue.Add(p.PaidAmount)
		if MonthOf(p.PaymentDate).Equal(currentMonth) {
			stats.RevenueThisMonth = stats.RevenueThisMonth.Add(p.PaidAmount)
		}
		byEnrollment[p.EnrollmentID] = append(byEnrollment[p.EnrollmentID], p)
	}

	// Student by student. A global subtraction would let one student's
	// surplus hide another's debt.
	for _, enr := range enrollments {
		if enr.Status != EnrollmentActive || !enr.Billable() {
			continue
		}

		own := byEnrollment[enr.ID]

		monthsPassed := MonthsInclusive(MonthOf(enr.EnrollmentDate), currentMonth)
		expectedLifetime := enr.MonthlyFee.Mul(decimal.NewFromInt(int64(monthsPassed)))

		paidLifetime := decimal.Zero
		paidThisMonth := decimal.Zero
		for _, p := range own {
			paidLifetime = paidLifetime.Add(p.PaidAmount)
			if p.Obligation().Equal(currentMonth) {
				paidThisMonth = paidThisMonth.Add(p.PaidAmount)
			}
		}

		stats.DueTotal = stats.DueTotal.Add(
			decimal.Max(decimal.Zero, expectedLifetime.Sub(paidLifetime)))

		if !enr.EnrollmentDate.After(today) {
			stats.DueThisMonth = stats.DueThisMonth.Add(
				decimal.Max(decimal.Zero, enr.MonthlyFee.Sub(paidThisMonth)))
		}
	}

	return stats, nil
}

// ProgramFinanceStats aggregates revenue by program, restricted to payments
// whose enrollment belongs to that program, plus an enrolled headcount.
func (e *Engine) ProgramFinanceStats(ctx context.Context) ([]ProgramStats, error) {
	programs, err := e.Store.ListPrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load programs: %w", err)
	}
	enrollments, err := e.Store.ListEnrollments(ctx, EnrollmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	payments, err := e.Store.ListPayments(ctx, PaymentFilter{})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	currentMonth := MonthOf(e.today())

	programOf := make(map[EnrollmentID]ProgramID, len(enrollments))
	headcount := make(map[ProgramID]int)
	for _, enr := range enrollments {
		programOf[enr.ID] = enr.ProgramID
		headcount[enr.ProgramID]++
	}

	revenue := make(map[ProgramID]decimal.Decimal)
	revenueThisMonth := make(map[ProgramID]decimal.Decimal)
	for _, p := range payments {
		pid, ok := programOf[p.EnrollmentID]
		if !ok {
			continue
		}
		revenue[pid] = revenue[pid].Add(p.PaidAmount)
		if MonthOf(p.PaymentDate).Equal(currentMonth) {
			revenueThisMonth[pid] = revenueThisMonth[pid].Add(p.PaidAmount)
		}
	}

	stats := make([]ProgramStats, 0, len(programs))
	for _, prog := range programs {
		stats = append(stats, ProgramStats{
			ProgramID:        prog.ID,
			ProgramName:      prog.DisplayName(),
			TotalRevenue:     revenue[prog.ID],
			RevenueThisMonth: revenueThisMonth[prog.ID],
			ActiveStudents:   headcount[prog.ID],
		})
	}
	return stats, nil
}
