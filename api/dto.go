/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Students:     StudentDTO, CreateStudentRequest
  Programs:     ProgramDTO, CreateProgramRequest, CreateBatchRequest
  Enrollments:  EnrollmentDTO, CreateEnrollmentRequest
  Ledger:       LedgerDTO, LedgerEntryDTO
  Payments:     BulkPaymentRequest, BulkPaymentItem, PaymentDTO
  Finance:      FinanceStatsDTO, ProgramStatsDTO

VALIDATION:
  Request types carry validator struct tags (go-playground/validator).
  Handlers run the validator before touching the engine, so malformed
  input never reaches domain logic.

MONEY ENCODING:
  Amounts cross the wire as JSON strings ("500.00") to avoid float
  rounding on either side. shopspring/decimal marshals this way when
  decimal.MarshalJSONWithoutQuotes is false, which is the default.

SEE ALSO:
  - handlers.go: Uses these types
  - reconcile/types.go: The domain model these map from
*/
package api

import (
	"github.com/classboard/fee-engine/reconcile"
	"github.com/shopspring/decimal"
)

// =============================================================================
// STUDENT TYPES
// =============================================================================

// StudentDTO represents a student in API responses.
type StudentDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FathersName string `json:"fathers_name,omitempty"`
	School      string `json:"school,omitempty"`
	Contact     string `json:"contact,omitempty"`
	RollNo      int    `json:"roll_no"`
	ClassGrade  int    `json:"class_grade,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateStudentRequest is the request to register a student.
type CreateStudentRequest struct {
	Name        string `json:"name" validate:"required"`
	FathersName string `json:"fathers_name"`
	School      string `json:"school"`
	Contact     string `json:"contact"`
	RollNo      int    `json:"roll_no" validate:"required,gt=0"`
	ClassGrade  int    `json:"class_grade" validate:"omitempty,gte=1,lte=12"`
}

// =============================================================================
// PROGRAM AND BATCH TYPES
// =============================================================================

// BatchDTO represents an admission batch in API responses.
type BatchDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateBatchRequest is the request to create a batch.
type CreateBatchRequest struct {
	Name string `json:"name" validate:"required"`
}

// ProgramDTO represents a program in API responses. DisplayName carries
// the batch-qualified form shown in dashboards, e.g. "Physics (HSC 2026)".
type ProgramDTO struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	MonthlyFee       decimal.Decimal `json:"monthly_fee"`
	BatchID          int64           `json:"batch_id"`
	BatchName        string          `json:"batch_name,omitempty"`
	DisplayName      string          `json:"display_name"`
	EnrolledStudents int             `json:"enrolled_students"`
}

// CreateProgramRequest is the request to create a program.
type CreateProgramRequest struct {
	Name       string `json:"name" validate:"required"`
	MonthlyFee string `json:"monthly_fee" validate:"required"`
	BatchID    int64  `json:"batch_id" validate:"required,gt=0"`
}

// =============================================================================
// ENROLLMENT TYPES
// =============================================================================

// EnrollmentDTO represents an enrollment in API responses.
type EnrollmentDTO struct {
	ID             int64  `json:"id"`
	StudentID      int64  `json:"student_id"`
	ProgramID      int64  `json:"program_id"`
	ProgramName    string `json:"program_name,omitempty"`
	MonthlyFee     string `json:"monthly_fee,omitempty"`
	EnrollmentDate string `json:"enrollment_date"`
	Status         string `json:"status"`
}

// CreateEnrollmentRequest is the request to enroll a student in a program.
// EnrollmentDate defaults to today when omitted.
type CreateEnrollmentRequest struct {
	StudentID      int64  `json:"student_id" validate:"required,gt=0"`
	ProgramID      int64  `json:"program_id" validate:"required,gt=0"`
	EnrollmentDate string `json:"enrollment_date" validate:"omitempty,datetime=2006-01-02"`
}

// =============================================================================
// LEDGER TYPES
// =============================================================================

// LedgerEntryDTO is one month row of an enrollment's fee ledger.
type LedgerEntryDTO struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Label    string          `json:"label"`
	Fee      decimal.Decimal `json:"fee"`
	Paid     decimal.Decimal `json:"paid"`
	Due      decimal.Decimal `json:"due"`
	Status   string          `json:"status"`
	IsFuture bool            `json:"is_future"`
}

// LedgerDTO is the full reconciliation result for one enrollment.
// PaidUpTo is null when no month is fully covered.
type LedgerDTO struct {
	EnrollmentID int64            `json:"enrollment_id"`
	TotalDue     decimal.Decimal  `json:"total_due"`
	PaidUpTo     *string          `json:"paid_up_to"`
	Entries      []LedgerEntryDTO `json:"entries"`
}

// =============================================================================
// PAYMENT TYPES
// =============================================================================

// BulkPaymentItem is one month's payment inside a bulk submission.
// Either enrollment_id or the (student_id, program_id) pair identifies
// the target enrollment.
type BulkPaymentItem struct {
	EnrollmentID  int64  `json:"enrollment_id" validate:"omitempty,gt=0"`
	StudentID     int64  `json:"student_id" validate:"omitempty,gt=0"`
	ProgramID     int64  `json:"program_id" validate:"omitempty,gt=0"`
	PaidAmount    string `json:"paid_amount" validate:"required"`
	PaymentDate   string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Month         int    `json:"month" validate:"required,gte=1,lte=12"`
	Year          int    `json:"year" validate:"required,gte=2000,lte=2100"`
	PaymentMethod string `json:"payment_method"`
	Remarks       string `json:"remarks"`
}

// BulkPaymentRequest submits several months of payments as one receipt.
// IdempotencyKey, when set, guards against double submission: resubmitting
// the same key is rejected rather than recorded twice.
type BulkPaymentRequest struct {
	IdempotencyKey string            `json:"idempotency_key"`
	Items          []BulkPaymentItem `json:"items" validate:"required,min=1,dive"`
}

// PaymentDTO represents a persisted payment in API responses.
type PaymentDTO struct {
	ID                 int64           `json:"id"`
	EnrollmentID       int64           `json:"enrollment_id"`
	StudentName        string          `json:"student_name,omitempty"`
	RollNo             int             `json:"roll_no,omitempty"`
	ProgramName        string          `json:"program_name,omitempty"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	PaymentDate        string          `json:"payment_date"`
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	TransactionGroupID string          `json:"transaction_group_id"`
	PaymentMethod      string          `json:"payment_method,omitempty"`
	Remarks            string          `json:"remarks,omitempty"`
}

// BulkPaymentResponse reports what a bulk submission persisted.
type BulkPaymentResponse struct {
	TransactionGroupID string       `json:"transaction_group_id"`
	Count              int          `json:"count"`
	Payments           []PaymentDTO `json:"payments"`
}

// =============================================================================
// FINANCE TYPES
// =============================================================================

// FinanceStatsDTO is the center-wide dues and revenue summary.
type FinanceStatsDTO struct {
	DueThisMonth     decimal.Decimal `json:"due_this_month"`
	DueTotal         decimal.Decimal `json:"due_total"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// ProgramStatsDTO is the per-program finance rollup.
type ProgramStatsDTO struct {
	ProgramID        int64           `json:"program_id"`
	DisplayName      string          `json:"display_name"`
	ActiveStudents   int             `json:"active_students"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toLedgerEntryDTO(e reconcile.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		Month:    int(e.Month),
		Year:     e.Year,
		Label:    e.Key().String(),
		Fee:      e.Fee,
		Paid:     e.Paid,
		Due:      e.Due,
		Status:   string(e.Status),
		IsFuture: e.IsFuture,
	}
}

func toPaymentDTO(p reconcile.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                 int64(p.ID),
		EnrollmentID:       int64(p.EnrollmentID),
		PaidAmount:         p.PaidAmount,
		PaymentDate:        p.PaymentDate.Format("2006-01-02"),
		Month:              int(p.Month),
		Year:               p.Year,
		TransactionGroupID: p.TransactionGroupID,
		PaymentMethod:      p.PaymentMethod,
		Remarks:            p.Remarks,
	}
}
