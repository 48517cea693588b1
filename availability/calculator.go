// Package availability computes remaining stock for a product over an
// inclusive date range, given the commitments of overlapping active orders.
// The database fetch lives in the database package; the math here is pure so
// it can be exercised without storage.
package availability

import "time"

// DateFormat matches the wire format of rental dates.
const DateFormat = "2006-01-02"

// Commitment is one order item of a stock-committing order that overlaps the
// queried range: its parent order's inclusive dates and the held quantity.
type Commitment struct {
	Start    time.Time
	End      time.Time
	Quantity int
}

// AvailableUnits walks each calendar day of [start, end] and subtracts the
// peak daily usage from total stock. The result is clamped at zero: existing
// overbookings report no availability rather than a negative number.
func AvailableUnits(totalStock int, start, end time.Time, commitments []Commitment) int {
	if end.Before(start) {
		return 0
	}
	peak := MaxDailyUsage(start, end, commitments)
	if peak >= totalStock {
		return 0
	}
	return totalStock - peak
}

// MaxDailyUsage returns the highest summed quantity held on any single day
// of [start, end]. Overlap per day: commitment.Start <= day <= commitment.End.
func MaxDailyUsage(start, end time.Time, commitments []Commitment) int {
	peak := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		used := 0
		for _, c := range commitments {
			if !day.Before(c.Start) && !day.After(c.End) {
				used += c.Quantity
			}
		}
		if used > peak {
			peak = used
		}
	}
	return peak
}

// PeakCommitted returns the highest daily usage across the whole span of the
// given commitments. The product stock guard uses this: total stock may not
// drop below the quantity active orders already hold.
func PeakCommitted(commitments []Commitment) int {
	if len(commitments) == 0 {
		return 0
	}
	lo, hi := commitments[0].Start, commitments[0].End
	for _, c := range commitments[1:] {
		if c.Start.Before(lo) {
			lo = c.Start
		}
		if c.End.After(hi) {
			hi = c.End
		}
	}
	return MaxDailyUsage(lo, hi, commitments)
}

// ParseDate parses a wire-format rental date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
