/*
handlers.go - HTTP API handlers for the fee ledger system

PURPOSE:
  Exposes the reconciliation engine and admin records via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Students:
    GET    /api/students                    List all students
    POST   /api/students                    Register a student
    GET    /api/students/{id}               Get student details
    GET    /api/students/{id}/payments      Payment history for a student

  Programs and batches:
    GET    /api/programs                    List programs with batch names
    POST   /api/programs                    Create a program
    GET    /api/batches                     List batches
    POST   /api/batches                     Create a batch

  Enrollments:
    GET    /api/enrollments                 List enrollments (filterable)
    POST   /api/enrollments                 Enroll a student in a program
    GET    /api/enrollments/{id}/ledger     Month-by-month fee ledger

  Payments:
    POST   /api/payments/bulk               Record a multi-month receipt
    GET    /api/payments/recent             Latest payments across the center

  Finance:
    GET    /api/finance/stats               Center-wide dues and revenue
    GET    /api/finance/programs            Per-program rollup

REQUEST FLOW:
  1. Decode JSON body
  2. Run struct validation (go-playground/validator)
  3. Call domain logic (engine or store)
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Enrollment/student/program not found
  - 409: Conflict (duplicate batch key, duplicate enrollment)
  - 500: Store errors

  reconcile.IsValidation is checked before reconcile.IsNotFound: a bulk
  item that names an unknown enrollment is the caller's input being wrong,
  so the whole batch maps to 400.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - reconcile/engine.go: The domain logic behind these handlers
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/classboard/fee-engine/reconcile"
	"github.com/classboard/fee-engine/store/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Engine   *reconcile.Engine
	validate *validator.Validate
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:    store,
		Engine:   reconcile.NewEngine(store),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// decodeAndValidate decodes the request body into dst and runs struct
// validation. On failure it writes the 400 response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// =============================================================================
// STUDENT HANDLERS
// =============================================================================

// ListStudents returns all students.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.Store.ListStudents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list students", err)
		return
	}

	dtos := make([]StudentDTO, len(students))
	for i, s := range students {
		dtos[i] = toStudentDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStudent returns a single student.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student id", err)
		return
	}

	student, err := h.Store.GetStudent(r.Context(), reconcile.StudentID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get student", err)
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "Student not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toStudentDTO(*student))
}

// CreateStudent registers a new student.
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	student := reconcile.Student{
		Name:        req.Name,
		FathersName: req.FathersName,
		School:      req.School,
		Contact:     req.Contact,
		RollNo:      req.RollNo,
		ClassGrade:  req.ClassGrade,
	}
	if err := h.Store.SaveStudent(r.Context(), &student); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create student", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStudentDTO(student))
}

// StudentPayments returns the payment history for one student, newest first.
func (h *Handler) StudentPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student id", err)
		return
	}

	details, err := h.Store.PaymentsByStudent(r.Context(), reconcile.StudentID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDetailDTOs(details))
}

func toStudentDTO(s reconcile.Student) StudentDTO {
	dto := StudentDTO{
		ID:          int64(s.ID),
		Name:        s.Name,
		FathersName: s.FathersName,
		School:      s.School,
		Contact:     s.Contact,
		RollNo:      s.RollNo,
		ClassGrade:  s.ClassGrade,
	}
	if !s.CreatedAt.IsZero() {
		dto.CreatedAt = s.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// BATCH AND PROGRAM HANDLERS
// =============================================================================

// ListBatches returns all batches.
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Store.ListBatches(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list batches", err)
		return
	}

	dtos := make([]BatchDTO, len(batches))
	for i, b := range batches {
		dtos[i] = BatchDTO{ID: int64(b.ID), Name: b.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBatch creates a new batch.
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req CreateBatchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	batch := reconcile.Batch{Name: req.Name}
	if err := h.Store.SaveBatch(r.Context(), &batch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create batch", err)
		return
	}
	writeJSON(w, http.StatusCreated, BatchDTO{ID: int64(batch.ID), Name: batch.Name})
}

// ListPrograms returns all programs with their batch names.
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.Store.ListPrograms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list programs", err)
		return
	}
	enrollments, err := h.Store.ListEnrollments(r.Context(), reconcile.EnrollmentFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list enrollments", err)
		return
	}
	headcount := make(map[reconcile.ProgramID]int)
	for _, e := range enrollments {
		headcount[e.ProgramID]++
	}

	dtos := make([]ProgramDTO, len(programs))
	for i, p := range programs {
		dtos[i] = ProgramDTO{
			ID:               int64(p.ID),
			Name:             p.Name,
			MonthlyFee:       p.MonthlyFee,
			BatchID:          int64(p.BatchID),
			BatchName:        p.BatchName,
			DisplayName:      p.DisplayName(),
			EnrolledStudents: headcount[p.ID],
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProgram creates a new program under a batch.
func (h *Handler) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req CreateProgramRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	fee, err := decimal.NewFromString(req.MonthlyFee)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid monthly_fee", err)
		return
	}
	if fee.IsNegative() {
		writeError(w, http.StatusBadRequest, "monthly_fee cannot be negative", nil)
		return
	}

	program := reconcile.Program{
		Name:       req.Name,
		MonthlyFee: fee,
		BatchID:    reconcile.BatchID(req.BatchID),
	}
	if err := h.Store.SaveProgram(r.Context(), &program); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create program", err)
		return
	}
	writeJSON(w, http.StatusCreated, ProgramDTO{
		ID:          int64(program.ID),
		Name:        program.Name,
		MonthlyFee:  program.MonthlyFee,
		BatchID:     int64(program.BatchID),
		DisplayName: program.DisplayName(),
	})
}

// =============================================================================
// ENROLLMENT HANDLERS
// =============================================================================

// ListEnrollments returns enrollments, optionally filtered by student_id,
// program_id, or status query parameters.
func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	var filter reconcile.EnrollmentFilter

	if raw := r.URL.Query().Get("student_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid student_id", err)
			return
		}
		sid := reconcile.StudentID(id)
		filter.StudentID = &sid
	}
	if raw := r.URL.Query().Get("program_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid program_id", err)
			return
		}
		pid := reconcile.ProgramID(id)
		filter.ProgramID = &pid
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := reconcile.EnrollmentStatus(raw)
		filter.Status = &status
	}

	enrollments, err := h.Store.ListEnrollments(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list enrollments", err)
		return
	}

	dtos := make([]EnrollmentDTO, len(enrollments))
	for i, e := range enrollments {
		dtos[i] = toEnrollmentDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEnrollment enrolls a student in a program. The enrollment date
// defaults to today, and a second enrollment for the same pair is a 409.
func (h *Handler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var req CreateEnrollmentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	enrollmentDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EnrollmentDate != "" {
		parsed, err := time.Parse(dateLayout, req.EnrollmentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid enrollment_date format (use YYYY-MM-DD)", err)
			return
		}
		enrollmentDate = parsed
	}

	enrollment := reconcile.Enrollment{
		StudentID:      reconcile.StudentID(req.StudentID),
		ProgramID:      reconcile.ProgramID(req.ProgramID),
		EnrollmentDate: enrollmentDate,
		Status:         reconcile.EnrollmentActive,
	}
	if err := h.Store.SaveEnrollment(r.Context(), &enrollment); err != nil {
		if errors.Is(err, sqlite.ErrAlreadyEnrolled) {
			writeError(w, http.StatusConflict, "Student is already enrolled in this program", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create enrollment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEnrollmentDTO(enrollment))
}

// GetLedger returns the month-by-month fee ledger for an enrollment.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid enrollment id", err)
		return
	}

	result, err := h.Engine.BuildLedger(r.Context(), reconcile.EnrollmentID(id))
	if err != nil {
		if reconcile.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Enrollment not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to build ledger", err)
		return
	}

	dto := LedgerDTO{
		EnrollmentID: id,
		TotalDue:     result.TotalDue,
		Entries:      make([]LedgerEntryDTO, len(result.Entries)),
	}
	if result.PaidUpTo != nil {
		label := result.PaidUpTo.String()
		dto.PaidUpTo = &label
	}
	for i, entry := range result.Entries {
		dto.Entries[i] = toLedgerEntryDTO(entry)
	}
	writeJSON(w, http.StatusOK, dto)
}

func toEnrollmentDTO(e reconcile.Enrollment) EnrollmentDTO {
	dto := EnrollmentDTO{
		ID:             int64(e.ID),
		StudentID:      int64(e.StudentID),
		ProgramID:      int64(e.ProgramID),
		ProgramName:    e.ProgramName,
		EnrollmentDate: e.EnrollmentDate.Format(dateLayout),
		Status:         string(e.Status),
	}
	if e.HasProgram {
		dto.MonthlyFee = e.MonthlyFee.String()
	}
	return dto
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// SubmitBulkPayment records several months of payments as one atomic
// receipt. Every item either names an enrollment directly or a
// (student_id, program_id) pair. Validation failures in any item reject
// the entire batch; nothing is written.
func (h *Handler) SubmitBulkPayment(w http.ResponseWriter, r *http.Request) {
	var req BulkPaymentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	items := make([]reconcile.PaymentItem, len(req.Items))
	for i, in := range req.Items {
		amount, err := decimal.NewFromString(in.PaidAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid paid_amount", err)
			return
		}
		item := reconcile.PaymentItem{
			EnrollmentID:  reconcile.EnrollmentID(in.EnrollmentID),
			StudentID:     reconcile.StudentID(in.StudentID),
			ProgramID:     reconcile.ProgramID(in.ProgramID),
			PaidAmount:    amount,
			Month:         time.Month(in.Month),
			Year:          in.Year,
			PaymentMethod: in.PaymentMethod,
			Remarks:       in.Remarks,
		}
		if in.PaymentDate != "" {
			parsed, err := time.Parse(dateLayout, in.PaymentDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid payment_date format (use YYYY-MM-DD)", err)
				return
			}
			item.PaymentDate = parsed
		}
		items[i] = item
	}

	persisted, err := h.Engine.SubmitBulkPayment(r.Context(), req.IdempotencyKey, items)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrDuplicateBatch):
			writeError(w, http.StatusConflict, "This batch was already recorded", err)
		case reconcile.IsValidation(err):
			writeError(w, http.StatusBadRequest, "Invalid payment batch", err)
		case reconcile.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Enrollment not found", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to record payments", err)
		}
		return
	}

	resp := BulkPaymentResponse{
		Count:    len(persisted),
		Payments: make([]PaymentDTO, len(persisted)),
	}
	if len(persisted) > 0 {
		resp.TransactionGroupID = persisted[0].TransactionGroupID
	}
	for i, p := range persisted {
		resp.Payments[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// RecentPayments returns the latest payments across all students.
func (h *Handler) RecentPayments(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			writeError(w, http.StatusBadRequest, "Invalid limit (1-200)", err)
			return
		}
		limit = parsed
	}

	details, err := h.Store.RecentPayments(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDetailDTOs(details))
}

func toPaymentDetailDTOs(details []sqlite.PaymentDetail) []PaymentDTO {
	dtos := make([]PaymentDTO, len(details))
	for i, d := range details {
		dto := toPaymentDTO(d.Payment)
		dto.StudentName = d.StudentName
		dto.RollNo = d.RollNo
		dto.ProgramName = d.ProgramName
		dtos[i] = dto
	}
	return dtos
}

// =============================================================================
// FINANCE HANDLERS
// =============================================================================

// FinanceStats returns center-wide dues and revenue totals.
func (h *Handler) FinanceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Engine.FinanceStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute finance stats", err)
		return
	}
	writeJSON(w, http.StatusOK, FinanceStatsDTO{
		DueThisMonth:     stats.DueThisMonth,
		DueTotal:         stats.DueTotal,
		RevenueThisMonth: stats.RevenueThisMonth,
		TotalRevenue:     stats.TotalRevenue,
	})
}

// ProgramFinanceStats returns the per-program revenue rollup.
func (h *Handler) ProgramFinanceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Engine.ProgramFinanceStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute program stats", err)
		return
	}

	dtos := make([]ProgramStatsDTO, len(stats))
	for i, s := range stats {
		dtos[i] = ProgramStatsDTO{
			ProgramID:        int64(s.ProgramID),
			DisplayName:      s.ProgramName,
			ActiveStudents:   s.ActiveStudents,
			RevenueThisMonth: s.RevenueThisMonth,
			TotalRevenue:     s.TotalRevenue,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
