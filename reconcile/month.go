package reconcile

import "time"

// =============================================================================
// MONTH KEY - A calendar obligation period
// =============================================================================

// MonthKey identifies the calendar month a fee is owed for. It orders and
// iterates correctly across year boundaries (December wraps to January of
// Year+1).
type MonthKey struct {
	Month time.Month
	Year  int
}

func NewMonthKey(month time.Month, year int) MonthKey {
	return MonthKey{Month: month, Year: year}
}

// MonthOf returns the obligation month containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Month: t.Month(), Year: t.Year()}
}

// index maps the key onto a single ascending axis for comparison.
func (k MonthKey) index() int { return k.Year*12 + int(k.Month) - 1 }

// Comparison
func (k MonthKey) Before(other MonthKey) bool { return k.index() < other.index() }
func (k MonthKey) After(other MonthKey) bool  { return k.index() > other.index() }
func (k MonthKey) Equal(other MonthKey) bool  { return k.index() == other.index() }

// Next returns the following month, wrapping December into January of the
// next year.
func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Month: time.January, Year: k.Year + 1}
	}
	return MonthKey{Month: k.Month + 1, Year: k.Year}
}

// First returns the first day of the month as a date.
func (k MonthKey) First() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats as "January 2026", the form used for paid-up-to display.
func (k MonthKey) String() string {
	return k.First().Format("January 2006")
}

// MonthsInclusive counts months from 'from' through 'to', both ends
// included. Returns 0 when 'to' precedes 'from'.
func MonthsInclusive(from, to MonthKey) int {
	n := to.index() - from.index() + 1
	if n < 0 {
		return 0
	}
	return n
}
