/*
handlers_test.go - HTTP level tests for the fee ledger API

Tests drive the full stack: router, validation, engine, sqlite store.
Each test gets a fresh in-memory database.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/classboard/fee-engine/api"
	"github.com/classboard/fee-engine/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *api.Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store)
	// Pin the clock so ledger windows do not depend on the wall clock.
	h.Engine.Now = func() time.Time {
		return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	}

	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func decodeInto(t *testing.T, raw []byte, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst), "body: %s", raw)
}

// createWorld posts one batch, program, student, and enrollment through the
// API and returns the enrollment id.
func createWorld(t *testing.T, srv *httptest.Server) int64 {
	t.Helper()

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/batches", map[string]any{"name": "HSC 2026"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	var batch api.BatchDTO
	decodeInto(t, raw, &batch)

	resp, raw = doJSON(t, srv, http.MethodPost, "/api/programs", map[string]any{
		"name":        "Physics",
		"monthly_fee": "500",
		"batch_id":    batch.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	var program api.ProgramDTO
	decodeInto(t, raw, &program)

	resp, raw = doJSON(t, srv, http.MethodPost, "/api/students", map[string]any{
		"name":    "Rahim Uddin",
		"roll_no": 101,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	var student api.StudentDTO
	decodeInto(t, raw, &student)

	resp, raw = doJSON(t, srv, http.MethodPost, "/api/enrollments", map[string]any{
		"student_id":      student.ID,
		"program_id":      program.ID,
		"enrollment_date": "2026-01-05",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	var enrollment api.EnrollmentDTO
	decodeInto(t, raw, &enrollment)
	return enrollment.ID
}

// =============================================================================
// ADMIN RECORD TESTS
// =============================================================================

func TestCreateStudent_MissingNameRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/students", map[string]any{"roll_no": 101})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStudent_UnknownIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/students/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProgram_NegativeFeeRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/batches", map[string]any{"name": "HSC 2026"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/programs", map[string]any{
		"name":        "Physics",
		"monthly_fee": "-500",
		"batch_id":    1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateEnrollment_DuplicatePairIs409(t *testing.T) {
	srv, _ := newTestServer(t)
	createWorld(t, srv)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/enrollments", map[string]any{
		"student_id": 1,
		"program_id": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListPrograms_CarriesHeadcount(t *testing.T) {
	srv, _ := newTestServer(t)
	createWorld(t, srv)

	resp, raw := doJSON(t, srv, http.MethodGet, "/api/programs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var programs []api.ProgramDTO
	decodeInto(t, raw, &programs)
	require.Len(t, programs, 1)
	assert.Equal(t, "Physics (HSC 2026)", programs[0].DisplayName)
	assert.Equal(t, 1, programs[0].EnrolledStudents)
}

// =============================================================================
// LEDGER TESTS
// =============================================================================

func TestGetLedger_UnknownEnrollmentIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/enrollments/999/ledger", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetLedger_FullFlow(t *testing.T) {
	// GIVEN: An enrollment from January at 500/month, with February paid
	// WHEN: Fetching the ledger in mid March
	// THEN: January and March are due, February is covered, and the
	//       paid-up-to marker points at February despite the January gap

	srv, _ := newTestServer(t)
	id := createWorld(t, srv)

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{
			{"enrollment_id": id, "paid_amount": "500", "month": 2, "year": 2026},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	resp, raw = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/enrollments/%d/ledger", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	var ledger api.LedgerDTO
	decodeInto(t, raw, &ledger)

	require.Len(t, ledger.Entries, 3)
	assert.Equal(t, "1000", ledger.TotalDue.String())
	require.NotNil(t, ledger.PaidUpTo)
	assert.Equal(t, "February 2026", *ledger.PaidUpTo)

	assert.Equal(t, "Unpaid", ledger.Entries[0].Status)
	assert.Equal(t, "Paid", ledger.Entries[1].Status)
	assert.Equal(t, "Unpaid", ledger.Entries[2].Status)
	assert.False(t, ledger.Entries[2].IsFuture)
}

// =============================================================================
// BULK PAYMENT TESTS
// =============================================================================

func TestBulkPayment_EmptyBatchIs400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBulkPayment_SharedTransactionGroup(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWorld(t, srv)

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{
			{"enrollment_id": id, "paid_amount": "500", "month": 1, "year": 2026},
			{"enrollment_id": id, "paid_amount": "500", "month": 2, "year": 2026},
			{"enrollment_id": id, "paid_amount": "500", "month": 3, "year": 2026},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	var result api.BulkPaymentResponse
	decodeInto(t, raw, &result)

	assert.Equal(t, 3, result.Count)
	require.NotEmpty(t, result.TransactionGroupID)
	for _, p := range result.Payments {
		assert.Equal(t, result.TransactionGroupID, p.TransactionGroupID)
	}
}

func TestBulkPayment_ResolvesStudentProgramPair(t *testing.T) {
	srv, _ := newTestServer(t)
	createWorld(t, srv)

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{
			{"student_id": 1, "program_id": 1, "paid_amount": "500", "month": 1, "year": 2026},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
}

func TestBulkPayment_UnknownPairIs400(t *testing.T) {
	// An unresolvable item is the caller's input being wrong, so the whole
	// batch is a validation failure, not a 404.
	srv, _ := newTestServer(t)
	createWorld(t, srv)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{
			{"student_id": 1, "program_id": 999, "paid_amount": "500", "month": 1, "year": 2026},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBulkPayment_DuplicateIdempotencyKeyIs409(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWorld(t, srv)

	body := map[string]any{
		"idempotency_key": "receipt-0042",
		"items": []map[string]any{
			{"enrollment_id": id, "paid_amount": "500", "month": 1, "year": 2026},
		},
	}

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/payments/bulk", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBulkPayment_InvalidMonthRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWorld(t, srv)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{
			{"enrollment_id": id, "paid_amount": "500", "month": 13, "year": 2026},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecentPayments_IncludesStudentAndProgram(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWorld(t, srv)

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{
			{"enrollment_id": id, "paid_amount": "500", "month": 1, "year": 2026},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	resp, raw = doJSON(t, srv, http.MethodGet, "/api/payments/recent", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payments []api.PaymentDTO
	decodeInto(t, raw, &payments)
	require.Len(t, payments, 1)
	assert.Equal(t, "Rahim Uddin", payments[0].StudentName)
	assert.Equal(t, "Physics", payments[0].ProgramName)
}

// =============================================================================
// FINANCE TESTS
// =============================================================================

func TestFinanceStats_FullFlow(t *testing.T) {
	// GIVEN: One enrollment from January at 500/month with January paid
	// WHEN: Fetching stats in mid March
	// THEN: February and March remain due

	srv, _ := newTestServer(t)
	id := createWorld(t, srv)

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/payments/bulk", map[string]any{
		"items": []map[string]any{
			{"enrollment_id": id, "paid_amount": "500", "payment_date": "2026-03-02", "month": 1, "year": 2026},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	resp, raw = doJSON(t, srv, http.MethodGet, "/api/finance/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats api.FinanceStatsDTO
	decodeInto(t, raw, &stats)
	assert.Equal(t, "1000", stats.DueTotal.String())
	assert.Equal(t, "500", stats.DueThisMonth.String())
	assert.Equal(t, "500", stats.TotalRevenue.String())
	assert.Equal(t, "500", stats.RevenueThisMonth.String())
}

func TestProgramFinanceStats_UsesDisplayName(t *testing.T) {
	srv, _ := newTestServer(t)
	createWorld(t, srv)

	resp, raw := doJSON(t, srv, http.MethodGet, "/api/finance/programs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats []api.ProgramStatsDTO
	decodeInto(t, raw, &stats)
	require.Len(t, stats, 1)
	assert.Equal(t, "Physics (HSC 2026)", stats[0].DisplayName)
	assert.Equal(t, 1, stats[0].ActiveStudents)
}

// =============================================================================
// SEED TESTS
// =============================================================================

func TestSeedDemoData_PopulatesAndRefusesTwice(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, raw := doJSON(t, srv, http.MethodPost, "/api/admin/seed", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	resp, raw = doJSON(t, srv, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var students []api.StudentDTO
	decodeInto(t, raw, &students)
	assert.NotEmpty(t, students)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/admin/seed", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
