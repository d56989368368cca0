/*
accrual.go - Obligation month schedule generation

PURPOSE:
  Converts an enrollment start date and the set of paid obligation periods
  into the ordered, gap-free sequence of calendar months for which a fee
  obligation exists.

END BOUND:
  The sequence runs from the enrollment month up to the later of today's
  month or ONE MONTH AFTER the latest paid (month, year) pair. The extra
  month means a payment made for the current latest month is still
  included, and advance months beyond it stay visible. With no payments
  the end bound is simply today.

EDGE CASES:
  - December wraps to January of year+1.
  - An enrollment dated in the future with no payments yields an empty
    schedule: no obligations exist yet, and that is not an error.
*/
package reconcile

import "time"

// ObligationMonths returns the ascending, gap-free sequence of obligation
// months for an enrollment, given the obligation periods of its recorded
// payments and today's date.
func ObligationMonths(enrollmentDate time.Time, paid []MonthKey, today time.Time) []MonthKey {
	start := MonthOf(enrollmentDate)
	end := MonthOf(today)

	if latest, ok := latestMonth(paid); ok {
		if next := latest.Next(); next.After(end) {
			end = next
		}
	}

	var months []MonthKey
	for curr := start; !curr.After(end); curr = curr.Next() {
		months = append(months, curr)
	}
	return months
}

// latestMonth returns the chronologically latest (month, year) pair.
func latestMonth(keys []MonthKey) (MonthKey, bool) {
	if len(keys) == 0 {
		return MonthKey{}, false
	}
	latest := keys[0]
	for _, k := range keys[1:] {
		if k.After(latest) {
			latest = k
		}
	}
	return latest, true
}
