// Package store provides reconcile.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/classboard/fee-engine/reconcile"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	enrollments map[reconcile.EnrollmentID]reconcile.Enrollment
	programs    []reconcile.Program
	payments    []reconcile.Payment
	batchKeys   map[string]bool
	nextPayment reconcile.PaymentID
}

func NewMemory() *Memory {
	return &Memory{
		enrollments: make(map[reconcile.EnrollmentID]reconcile.Enrollment),
		batchKeys:   make(map[string]bool),
		nextPayment: 1,
	}
}

// PutEnrollment seeds an enrollment (fee already joined in).
func (m *Memory) PutEnrollment(e reconcile.Enrollment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments[e.ID] = e
}

// PutProgram seeds a program.
func (m *Memory) PutProgram(p reconcile.Program) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.programs = append(m.programs, p)
}

func (m *Memory) GetEnrollment(_ context.Context, id reconcile.EnrollmentID) (*reconcile.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.enrollments[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) ListEnrollments(_ context.Context, filter reconcile.EnrollmentFilter) ([]reconcile.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []reconcile.Enrollment
	for _, e := range m.enrollments {
		if filter.StudentID != nil && e.StudentID != *filter.StudentID {
			continue
		}
		if filter.ProgramID != nil && e.ProgramID != *filter.ProgramID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *Memory) ListPrograms(_ context.Context) ([]reconcile.Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]reconcile.Program, len(m.programs))
	copy(result, m.programs)
	return result, nil
}

func (m *Memory) ListPayments(_ context.Context, filter reconcile.PaymentFilter) ([]reconcile.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []reconcile.Payment
	for _, p := range m.payments {
		if filter.EnrollmentID != nil && p.EnrollmentID != *filter.EnrollmentID {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// InsertPayments appends all rows atomically: validation happens before any
// mutation, so a rejected batch leaves no trace.
func (m *Memory) InsertPayments(_ context.Context, batchKey string, rows []reconcile.Payment) ([]reconcile.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if batchKey != "" {
		if m.batchKeys[batchKey] {
			return nil, reconcile.ErrDuplicateBatch
		}
		m.batchKeys[batchKey] = true
	}

	persisted := make([]reconcile.Payment, 0, len(rows))
	for _, row := range rows {
		row.ID = m.nextPayment
		m.nextPayment++
		m.payments = append(m.payments, row)
		persisted = append(persisted, row)
	}
	return persisted, nil
}

func (m *Memory) ResolveEnrollment(_ context.Context, studentID reconcile.StudentID, programID reconcile.ProgramID) (reconcile.EnrollmentID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.ProgramID == programID {
			return e.ID, nil
		}
	}
	return 0, reconcile.ErrEnrollmentNotFound
}
