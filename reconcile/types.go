/*
Package reconcile provides the fee-ledger reconciliation engine.

PURPOSE:
  This package contains the domain types and algorithms for converting a
  student's enrollment start date and a program's monthly fee into a
  month-by-month obligation schedule, matching it against recorded payments,
  and aggregating per-student and institution-wide dues.

KEY CONCEPTS IN THIS FILE (types.go):
  - Student/Batch/Program/Enrollment/Payment: typed records from the store
  - MonthKey: an obligation period (calendar month a fee is owed for)
  - LedgerEntry: derived per-month status of fee vs. paid vs. due
  - FinanceStats/ProgramStats: institution-wide aggregates

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all money, no floats in the engine
  2. Type Safety: Strong typing for IDs prevents mixing student/program IDs
  3. Purity: ledger and aggregate calculations are pure functions of a
     snapshot of store state; the engine holds no mutable state
  4. Obligation months are distinct from payment dates: a payment is
     credited to a (month, year) period independent of when cash changed
     hands

SEE ALSO:
  - accrual.go: Obligation month schedule generation
  - ledger.go: Per-enrollment ledger construction
  - stats.go: Institution-wide and per-program dues aggregation
  - batch.go: Atomic multi-month bulk payment recording
*/
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StudentID int64
type ProgramID int64
type EnrollmentID int64
type PaymentID int64
type BatchID int64

// =============================================================================
// RECORDS - Typed rows from the store
// =============================================================================

// Student is an admitted student. Only identity fields matter to the engine;
// the rest exist for the admin CRUD surface.
type Student struct {
	ID          StudentID
	Name        string
	FathersName string
	School      string
	Contact     string
	RollNo      int
	ClassGrade  int
	CreatedAt   time.Time
}

// Batch groups programs by intake (e.g. "HSC 2026").
type Batch struct {
	ID   BatchID
	Name string
}

// Program is a course with a fixed monthly fee. The fee is read at
// reconciliation time; changing it affects future accrual only, recorded
// ledger rows are derived from payments and are never rewritten.
type Program struct {
	ID         ProgramID
	Name       string
	MonthlyFee decimal.Decimal
	BatchID    BatchID
	BatchName  string
	StartDate  *time.Time
	EndDate    *time.Time
}

// DisplayName is the program name qualified by its batch, the form used in
// per-program finance rollups.
func (p Program) DisplayName() string {
	if p.BatchName == "" {
		return p.Name
	}
	return p.Name + " (" + p.BatchName + ")"
}

type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "active"
	EnrollmentInactive EnrollmentStatus = "inactive"
)

// Enrollment links a student to a program. Fee obligations begin on the 1st
// of EnrollmentDate's month. The engine never mutates enrollments.
//
// MonthlyFee is joined from the program at read time. HasProgram is false
// when the program row could not be resolved; such enrollments are
// non-billable and are skipped from due computation.
type Enrollment struct {
	ID             EnrollmentID
	StudentID      StudentID
	ProgramID      ProgramID
	EnrollmentDate time.Time
	Status         EnrollmentStatus

	MonthlyFee  decimal.Decimal
	HasProgram  bool
	ProgramName string
}

// Billable reports whether this enrollment contributes to due computation.
func (e Enrollment) Billable() bool {
	return e.HasProgram && e.MonthlyFee.IsPositive()
}

// Payment is one recorded payment row. Month/Year is the obligation period
// the payment is credited to, independent of PaymentDate (when cash changed
// hands). Rows are created only by the batch writer and never updated in
// place.
type Payment struct {
	ID                 PaymentID
	EnrollmentID       EnrollmentID
	PaidAmount         decimal.Decimal
	PaymentDate        time.Time
	Month              time.Month
	Year               int
	TransactionGroupID string
	PaymentMethod      string
	Remarks            string
	CreatedAt          time.Time
}

// Obligation returns the period this payment is credited to.
func (p Payment) Obligation() MonthKey {
	return MonthKey{Month: p.Month, Year: p.Year}
}

// =============================================================================
// LEDGER ENTRY - Derived, not persisted
// =============================================================================

type LedgerStatus string

const (
	StatusPaid    LedgerStatus = "Paid"
	StatusPartial LedgerStatus = "Partial"
	StatusUnpaid  LedgerStatus = "Unpaid"
)

// LedgerEntry is the reconciled state of one enrollment/month pair.
//
// INVARIANTS:
//   - Due = max(0, Fee - Paid). Never negative; a month's excess payment is
//     not carried forward to reduce a later month's due.
//   - Months strictly after today report Due = 0 and IsFuture = true
//     regardless of Paid, so advance payments are visible without implying
//     current arrears.
type LedgerEntry struct {
	Month    time.Month
	Year     int
	Fee      decimal.Decimal
	Paid     decimal.Decimal
	Due      decimal.Decimal
	Status   LedgerStatus
	IsFuture bool
}

// Key returns the obligation period of this entry.
func (le LedgerEntry) Key() MonthKey {
	return MonthKey{Month: le.Month, Year: le.Year}
}

// LedgerResult is the full reconciled ledger for one enrollment.
//
// PaidUpTo is the latest month whose status is Paid, scanning
// chronologically. It is gap-tolerant: a later fully-paid month updates the
// marker even if an earlier month is still due.
type LedgerResult struct {
	TotalDue decimal.Decimal
	PaidUpTo *MonthKey
	Entries  []LedgerEntry
}

// =============================================================================
// AGGREGATES
// =============================================================================

// FinanceStats are institution-wide totals.
//
// Revenue figures are on a cash-received basis (payment_date), while due
// figures are on an obligation-period basis. The two axes are intentionally
// different.
type FinanceStats struct {
	TotalRevenue     decimal.Decimal
	RevenueThisMonth decimal.Decimal
	DueTotal         decimal.Decimal
	DueThisMonth     decimal.Decimal
}

// ProgramStats is the per-program revenue rollup.
type ProgramStats struct {
	ProgramID        ProgramID
	ProgramName      string
	TotalRevenue     decimal.Decimal
	RevenueThisMonth decimal.Decimal
	ActiveStudents   int
}

// =============================================================================
// BATCH PAYMENT INPUT
// =============================================================================

// PaymentItem is one line of a bulk payment, covering a single obligation
// month. Either EnrollmentID is set, or the (StudentID, ProgramID) pair is
// resolved by the batch writer before any write is issued.
type PaymentItem struct {
	EnrollmentID  EnrollmentID
	StudentID     StudentID
	ProgramID     ProgramID
	PaidAmount    decimal.Decimal
	PaymentDate   time.Time
	Month         time.Month
	Year          int
	PaymentMethod string
	Remarks       string
}
