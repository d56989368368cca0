package reconcile

import "time"

// =============================================================================
// ENGINE - Stateless facade over a record store
// =============================================================================

// Engine exposes the reconciliation operations. It is re-entrant: each call
// reads a snapshot of enrollments/payments and computes a pure function of
// it, so concurrent calls need no coordination inside the engine.
type Engine struct {
	Store Store

	// Now is injectable for deterministic tests. Defaults to time.Now.
	Now func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{Store: store, Now: time.Now}
}

func (e *Engine) today() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
