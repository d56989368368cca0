/*
seed.go - Demo data seeding

PURPOSE:
  Populates an empty database with a small realistic coaching center:
  two batches, three programs, a handful of students with enrollments
  staggered over recent months, and payment histories in various states
  (fully paid, behind, paid in advance).

  Intended for demos and local development. Seeding a non-empty database
  is rejected so it cannot silently mix demo rows into real records.

SEE ALSO:
  - handlers.go: The production write paths this reuses
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/classboard/fee-engine/reconcile"
	"github.com/shopspring/decimal"
)

// SeedDemoData loads a demo dataset into an empty database.
// POST /api/admin/seed
func (h *Handler) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, err := h.Store.ListStudents(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to inspect database", err)
		return
	}
	if len(existing) > 0 {
		writeError(w, http.StatusConflict, "Database is not empty; refusing to seed", nil)
		return
	}

	if err := h.seed(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed demo data", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "seeded"})
}

func (h *Handler) seed(ctx context.Context) error {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	hsc := reconcile.Batch{Name: "HSC 2026"}
	ssc := reconcile.Batch{Name: "SSC 2027"}
	for _, b := range []*reconcile.Batch{&hsc, &ssc} {
		if err := h.Store.SaveBatch(ctx, b); err != nil {
			return fmt.Errorf("save batch %q: %w", b.Name, err)
		}
	}

	physics := reconcile.Program{Name: "Physics", MonthlyFee: decimal.NewFromInt(1500), BatchID: hsc.ID}
	chemistry := reconcile.Program{Name: "Chemistry", MonthlyFee: decimal.NewFromInt(1200), BatchID: hsc.ID}
	math := reconcile.Program{Name: "Higher Math", MonthlyFee: decimal.NewFromInt(1000), BatchID: ssc.ID}
	for _, p := range []*reconcile.Program{&physics, &chemistry, &math} {
		if err := h.Store.SaveProgram(ctx, p); err != nil {
			return fmt.Errorf("save program %q: %w", p.Name, err)
		}
	}

	type seedStudent struct {
		student  reconcile.Student
		program  *reconcile.Program
		started  time.Time // enrollment date
		payMonths int      // obligation months covered, counting from start
	}

	seeds := []seedStudent{
		// Paid up through last month.
		{
			student: reconcile.Student{Name: "Rahim Uddin", FathersName: "Karim Uddin", School: "City College", Contact: "01711000001", RollNo: 101, ClassGrade: 11},
			program: &physics, started: monthStart.AddDate(0, -3, 4), payMonths: 3,
		},
		// Two months behind.
		{
			student: reconcile.Student{Name: "Salma Akter", FathersName: "Abdul Mannan", School: "Govt Girls High", Contact: "01711000002", RollNo: 102, ClassGrade: 11},
			program: &chemistry, started: monthStart.AddDate(0, -4, 9), payMonths: 2,
		},
		// Paid one month in advance.
		{
			student: reconcile.Student{Name: "Tanvir Hasan", FathersName: "Mozammel Hasan", School: "City College", Contact: "01711000003", RollNo: 103, ClassGrade: 10},
			program: &math, started: monthStart.AddDate(0, -1, 2), payMonths: 3,
		},
		// Enrolled this month, nothing paid yet.
		{
			student: reconcile.Student{Name: "Nusrat Jahan", FathersName: "Shafiqul Islam", School: "Ideal School", Contact: "01711000004", RollNo: 104, ClassGrade: 10},
			program: &math, started: monthStart.AddDate(0, 0, 1),
		},
	}

	for i, s := range seeds {
		if err := h.Store.SaveStudent(ctx, &s.student); err != nil {
			return fmt.Errorf("save student %q: %w", s.student.Name, err)
		}

		enrollment := reconcile.Enrollment{
			StudentID:      s.student.ID,
			ProgramID:      s.program.ID,
			EnrollmentDate: s.started,
			Status:         reconcile.EnrollmentActive,
		}
		if err := h.Store.SaveEnrollment(ctx, &enrollment); err != nil {
			return fmt.Errorf("enroll %q: %w", s.student.Name, err)
		}
		if s.payMonths == 0 {
			continue
		}

		items := make([]reconcile.PaymentItem, 0, s.payMonths)
		period := reconcile.MonthOf(s.started)
		for m := 0; m < s.payMonths; m++ {
			items = append(items, reconcile.PaymentItem{
				EnrollmentID:  enrollment.ID,
				PaidAmount:    s.program.MonthlyFee,
				PaymentDate:   s.started.AddDate(0, 0, 3),
				Month:         period.Month,
				Year:          period.Year,
				PaymentMethod: "Cash",
			})
			period = period.Next()
		}
		key := fmt.Sprintf("seed-%d", i+1)
		if _, err := h.Engine.SubmitBulkPayment(ctx, key, items); err != nil {
			return fmt.Errorf("record payments for %q: %w", s.student.Name, err)
		}
	}
	return nil
}
