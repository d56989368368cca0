/*
Package sqlite provides a SQLite-backed implementation of the record store.

PURPOSE:
  Implements reconcile.Store plus the admin CRUD surface (students,
  batches, programs, enrollments) using SQLite. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  students:         Admitted students
  batches:          Intake groups (a program belongs to a batch)
  programs:         Courses with a fixed monthly fee
  enrollments:      Student-to-program links; obligations start here
  payments:         Recorded payment rows, tagged to obligation months
  payment_batches:  Idempotency keys for bulk submissions

ATOMIC BATCHES:
  InsertPayments wraps the whole call in one SQL transaction. Recording a
  4-month bulk payment either persists all 4 rows or none: partial
  application is never observable to a reader.

IDEMPOTENCY:
  A non-empty batch key is inserted into payment_batches first; the
  primary key rejects a duplicate submission before any payment row is
  written. There is deliberately NO uniqueness over (enrollment, month,
  year) - multiple partial payments for one obligation month are valid.

MONEY:
  Fees and amounts are stored as decimal strings and parsed with
  shopspring/decimal. No floats touch the database.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

SEE ALSO:
  - reconcile/store.go: Interface definition
  - reconcile/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/classboard/fee-engine/reconcile"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ErrAlreadyEnrolled is returned when a student is enrolled twice into the
// same program.
var ErrAlreadyEnrolled = errors.New("student already enrolled in program")

// Store implements reconcile.Store and the admin CRUD surface using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// NewWithDB wraps an already open connection without migrating. Used by
// tests that drive the connection with a mock driver.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		fathers_name TEXT,
		school TEXT,
		contact TEXT,
		roll_no INTEGER,
		class_grade INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS batches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS programs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		monthly_fee TEXT NOT NULL DEFAULT '0',
		batch_id INTEGER REFERENCES batches(id),
		start_date TEXT,
		end_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS enrollments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id),
		program_id INTEGER NOT NULL REFERENCES programs(id),
		enrollment_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);

	-- One enrollment per (student, program); re-joining is a status change.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_student_program
		ON enrollments(student_id, program_id);
	CREATE INDEX IF NOT EXISTS idx_enrollments_student
		ON enrollments(student_id);
	CREATE INDEX IF NOT EXISTS idx_enrollments_program
		ON enrollments(program_id);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		enrollment_id INTEGER NOT NULL REFERENCES enrollments(id),
		paid_amount TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		transaction_group_id TEXT NOT NULL,
		payment_method TEXT,
		remarks TEXT,
		created_at TEXT NOT NULL
	);

	-- Ledger construction (hot path): payments by enrollment and period.
	CREATE INDEX IF NOT EXISTS idx_payments_enrollment_period
		ON payments(enrollment_id, year, month);
	-- Cash-received queries (revenue this month, recent feed).
	CREATE INDEX IF NOT EXISTS idx_payments_date
		ON payments(payment_date DESC);
	CREATE INDEX IF NOT EXISTS idx_payments_group
		ON payments(transaction_group_id);

	-- Idempotency keys for bulk submissions. The primary key makes a
	-- duplicate batch detectable before any payment row is written.
	CREATE TABLE IF NOT EXISTS payment_batches (
		key TEXT PRIMARY KEY,
		transaction_group_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECONCILE STORE (reconcile.Store interface)
// =============================================================================

const enrollmentColumns = `
	e.id, e.student_id, e.program_id, e.enrollment_date, e.status,
	p.monthly_fee, p.name`

// GetEnrollment returns the enrollment with its program fee joined in, or
// (nil, nil) when absent.
func (s *Store) GetEnrollment(ctx context.Context, id reconcile.EnrollmentID) (*reconcile.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments e
		LEFT JOIN programs p ON p.id = e.program_id
		WHERE e.id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	enr, err := scanEnrollment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return enr, nil
}

// ListEnrollments returns enrollments matching the filter, fees joined in.
func (s *Store) ListEnrollments(ctx context.Context, filter reconcile.EnrollmentFilter) ([]reconcile.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments e
		LEFT JOIN programs p ON p.id = e.program_id
	`
	var conditions []string
	var args []any
	if filter.StudentID != nil {
		conditions = append(conditions, "e.student_id = ?")
		args = append(args, *filter.StudentID)
	}
	if filter.ProgramID != nil {
		conditions = append(conditions, "e.program_id = ?")
		args = append(args, *filter.ProgramID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "e.status = ?")
		args = append(args, string(*filter.Status))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []reconcile.Enrollment
	for rows.Next() {
		enr, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *enr)
	}
	return enrollments, rows.Err()
}

// ListPrograms returns all programs with batch names joined in.
func (s *Store) ListPrograms(ctx context.Context) ([]reconcile.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT p.id, p.name, p.monthly_fee, p.batch_id, b.name, p.start_date, p.end_date
		FROM programs p
		LEFT JOIN batches b ON b.id = p.batch_id
		ORDER BY p.id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query programs: %w", err)
	}
	defer rows.Close()

	var programs []reconcile.Program
	for rows.Next() {
		var (
			p          reconcile.Program
			fee        string
			batchID    sql.NullInt64
			batchName  sql.NullString
			start, end sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &fee, &batchID, &batchName, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		p.MonthlyFee = mustDecimal(fee)
		p.BatchID = reconcile.BatchID(batchID.Int64)
		p.BatchName = batchName.String
		p.StartDate = parseNullDate(start)
		p.EndDate = parseNullDate(end)
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// ListPayments returns payments matching the filter, oldest first.
func (s *Store) ListPayments(ctx context.Context, filter reconcile.PaymentFilter) ([]reconcile.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, enrollment_id, paid_amount, payment_date, month, year,
		       transaction_group_id, payment_method, remarks, created_at
		FROM payments
	`
	var args []any
	if filter.EnrollmentID != nil {
		query += " WHERE enrollment_id = ?"
		args = append(args, *filter.EnrollmentID)
	}
	query += " ORDER BY year ASC, month ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []reconcile.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// InsertPayments persists all rows in one SQL transaction. Either every row
// is written or none is.
func (s *Store) InsertPayments(ctx context.Context, batchKey string, rows []reconcile.Payment) ([]reconcile.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	now := time.Now().UTC()

	if batchKey != "" {
		groupID := ""
		if len(rows) > 0 {
			groupID = rows[0].TransactionGroupID
		}
		_, err := sqlTx.ExecContext(ctx,
			"INSERT INTO payment_batches (key, transaction_group_id, created_at) VALUES (?, ?, ?)",
			batchKey, groupID, now.Format(time.RFC3339),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, reconcile.ErrDuplicateBatch
			}
			return nil, fmt.Errorf("failed to record batch key: %w", err)
		}
	}

	persisted := make([]reconcile.Payment, 0, len(rows))
	for _, row := range rows {
		res, err := sqlTx.ExecContext(ctx, `
			INSERT INTO payments
			(enrollment_id, paid_amount, payment_date, month, year,
			 transaction_group_id, payment_method, remarks, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.EnrollmentID,
			row.PaidAmount.String(),
			row.PaymentDate.Format(dateLayout),
			int(row.Month),
			row.Year,
			row.TransactionGroupID,
			nullString(row.PaymentMethod),
			nullString(row.Remarks),
			now.Format(time.RFC3339),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert payment: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read payment id: %w", err)
		}
		row.ID = reconcile.PaymentID(id)
		row.CreatedAt = now
		persisted = append(persisted, row)
	}

	if err := sqlTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payments: %w", err)
	}
	return persisted, nil
}

// ResolveEnrollment maps a (student, program) pair to its enrollment id.
func (s *Store) ResolveEnrollment(ctx context.Context, studentID reconcile.StudentID, programID reconcile.ProgramID) (reconcile.EnrollmentID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id reconcile.EnrollmentID
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM enrollments WHERE student_id = ? AND program_id = ?",
		studentID, programID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, reconcile.ErrEnrollmentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve enrollment: %w", err)
	}
	return id, nil
}

// =============================================================================
// STUDENTS
// =============================================================================

// SaveStudent inserts a student and assigns its id.
func (s *Store) SaveStudent(ctx context.Context, student *reconcile.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO students (name, fathers_name, school, contact, roll_no, class_grade, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		student.Name,
		nullString(student.FathersName),
		nullString(student.School),
		nullString(student.Contact),
		student.RollNo,
		student.ClassGrade,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read student id: %w", err)
	}
	student.ID = reconcile.StudentID(id)
	student.CreatedAt = now
	return nil
}

// GetStudent returns a student, or (nil, nil) when absent.
func (s *Store) GetStudent(ctx context.Context, id reconcile.StudentID) (*reconcile.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, fathers_name, school, contact, roll_no, class_grade, created_at
		FROM students WHERE id = ?`, id)

	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// ListStudents returns all students.
func (s *Store) ListStudents(ctx context.Context) ([]reconcile.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, fathers_name, school, contact, roll_no, class_grade, created_at
		FROM students ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []reconcile.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *student)
	}
	return students, rows.Err()
}

// =============================================================================
// BATCHES & PROGRAMS
// =============================================================================

// SaveBatch inserts a batch and assigns its id.
func (s *Store) SaveBatch(ctx context.Context, batch *reconcile.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO batches (name) VALUES (?)", batch.Name)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read batch id: %w", err)
	}
	batch.ID = reconcile.BatchID(id)
	return nil
}

// ListBatches returns all batches.
func (s *Store) ListBatches(ctx context.Context) ([]reconcile.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM batches ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []reconcile.Batch
	for rows.Next() {
		var b reconcile.Batch
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// SaveProgram inserts a program and assigns its id.
func (s *Store) SaveProgram(ctx context.Context, program *reconcile.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var batchID any
	if program.BatchID != 0 {
		batchID = int64(program.BatchID)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO programs (name, monthly_fee, batch_id, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		program.Name,
		program.MonthlyFee.String(),
		batchID,
		formatNullDate(program.StartDate),
		formatNullDate(program.EndDate),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert program: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read program id: %w", err)
	}
	program.ID = reconcile.ProgramID(id)
	return nil
}

// =============================================================================
// ENROLLMENTS
// =============================================================================

// SaveEnrollment inserts an enrollment and assigns its id. A second
// enrollment of the same student into the same program fails with
// ErrAlreadyEnrolled.
func (s *Store) SaveEnrollment(ctx context.Context, enrollment *reconcile.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := enrollment.Status
	if status == "" {
		status = reconcile.EnrollmentActive
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollments (student_id, program_id, enrollment_date, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		enrollment.StudentID,
		enrollment.ProgramID,
		enrollment.EnrollmentDate.Format(dateLayout),
		string(status),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read enrollment id: %w", err)
	}
	enrollment.ID = reconcile.EnrollmentID(id)
	enrollment.Status = status
	return nil
}

// =============================================================================
// PAYMENT FEEDS - Joined views for the API surface
// =============================================================================

// PaymentDetail is a payment row joined with the student and program it
// belongs to, for transaction feeds.
type PaymentDetail struct {
	reconcile.Payment
	StudentName string
	RollNo      int
	ProgramName string
}

const paymentDetailColumns = `
	pay.id, pay.enrollment_id, pay.paid_amount, pay.payment_date, pay.month, pay.year,
	pay.transaction_group_id, pay.payment_method, pay.remarks, pay.created_at,
	st.name, st.roll_no, pr.name`

// RecentPayments returns the latest payments across the institution,
// newest first.
func (s *Store) RecentPayments(ctx context.Context, limit int) ([]PaymentDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + paymentDetailColumns + `
		FROM payments pay
		JOIN enrollments e ON e.id = pay.enrollment_id
		JOIN students st ON st.id = e.student_id
		LEFT JOIN programs pr ON pr.id = e.program_id
		ORDER BY pay.payment_date DESC, pay.id DESC
		LIMIT ?
	`
	return s.queryPaymentDetails(ctx, query, limit)
}

// PaymentsByStudent returns a student's payment history across all of their
// enrollments, newest first.
func (s *Store) PaymentsByStudent(ctx context.Context, studentID reconcile.StudentID) ([]PaymentDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + paymentDetailColumns + `
		FROM payments pay
		JOIN enrollments e ON e.id = pay.enrollment_id
		JOIN students st ON st.id = e.student_id
		LEFT JOIN programs pr ON pr.id = e.program_id
		WHERE e.student_id = ?
		ORDER BY pay.payment_date DESC, pay.id DESC
	`
	return s.queryPaymentDetails(ctx, query, studentID)
}

func (s *Store) queryPaymentDetails(ctx context.Context, query string, args ...any) ([]PaymentDetail, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment details: %w", err)
	}
	defer rows.Close()

	var details []PaymentDetail
	for rows.Next() {
		var (
			d           PaymentDetail
			amount      string
			paymentDate string
			month       int
			method      sql.NullString
			remarks     sql.NullString
			createdAt   string
			rollNo      sql.NullInt64
			programName sql.NullString
		)
		err := rows.Scan(
			&d.ID, &d.EnrollmentID, &amount, &paymentDate, &month, &d.Year,
			&d.TransactionGroupID, &method, &remarks, &createdAt,
			&d.StudentName, &rollNo, &programName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment detail: %w", err)
		}
		d.PaidAmount = mustDecimal(amount)
		d.PaymentDate, _ = time.Parse(dateLayout, paymentDate)
		d.Month = time.Month(month)
		d.PaymentMethod = method.String
		d.Remarks = remarks.String
		d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		d.RollNo = int(rollNo.Int64)
		d.ProgramName = programName.String
		details = append(details, d)
	}
	return details, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row rowScanner) (*reconcile.Enrollment, error) {
	var (
		enr            reconcile.Enrollment
		enrollmentDate string
		status         string
		fee            sql.NullString
		programName    sql.NullString
	)
	err := row.Scan(&enr.ID, &enr.StudentID, &enr.ProgramID, &enrollmentDate, &status, &fee, &programName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan enrollment: %w", err)
	}
	enr.EnrollmentDate, _ = time.Parse(dateLayout, enrollmentDate)
	enr.Status = reconcile.EnrollmentStatus(status)
	enr.HasProgram = fee.Valid
	if fee.Valid {
		enr.MonthlyFee = mustDecimal(fee.String)
	}
	enr.ProgramName = programName.String
	return &enr, nil
}

func scanPayment(row rowScanner) (reconcile.Payment, error) {
	var (
		p           reconcile.Payment
		amount      string
		paymentDate string
		month       int
		method      sql.NullString
		remarks     sql.NullString
		createdAt   string
	)
	err := row.Scan(&p.ID, &p.EnrollmentID, &amount, &paymentDate, &month, &p.Year,
		&p.TransactionGroupID, &method, &remarks, &createdAt)
	if err != nil {
		return p, fmt.Errorf("failed to scan payment: %w", err)
	}
	p.PaidAmount = mustDecimal(amount)
	p.PaymentDate, _ = time.Parse(dateLayout, paymentDate)
	p.Month = time.Month(month)
	p.PaymentMethod = method.String
	p.Remarks = remarks.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}

func scanStudent(row rowScanner) (*reconcile.Student, error) {
	var (
		student     reconcile.Student
		fathersName sql.NullString
		school      sql.NullString
		contact     sql.NullString
		rollNo      sql.NullInt64
		classGrade  sql.NullInt64
		createdAt   string
	)
	err := row.Scan(&student.ID, &student.Name, &fathersName, &school, &contact,
		&rollNo, &classGrade, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	student.FathersName = fathersName.String
	student.School = school.String
	student.Contact = contact.String
	student.RollNo = int(rollNo.Int64)
	student.ClassGrade = int(classGrade.Int64)
	student.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &student, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseNullDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func formatNullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
