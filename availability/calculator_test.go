package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := ParseDate(s)
	require.NoError(t, err)
	return v
}

func commit(t *testing.T, start, end string, qty int) Commitment {
	t.Helper()
	return Commitment{Start: day(t, start), End: day(t, end), Quantity: qty}
}

func TestAvailableUnitsOverlappingReservation(t *testing.T) {
	// Stock 5, one active order holds 3 for Jan 10-12; querying Jan 11-13
	// leaves 2 on the shared days.
	got := AvailableUnits(5,
		day(t, "2024-01-11"), day(t, "2024-01-13"),
		[]Commitment{commit(t, "2024-01-10", "2024-01-12", 3)})
	assert.Equal(t, 2, got)
}

func TestAvailableUnitsNoCommitments(t *testing.T) {
	got := AvailableUnits(4, day(t, "2024-03-01"), day(t, "2024-03-05"), nil)
	assert.Equal(t, 4, got)
}

func TestAvailableUnitsDisjointCommitmentsDoNotStack(t *testing.T) {
	// Two holds of 3 on non-overlapping days peak at 3, not 6.
	got := AvailableUnits(5,
		day(t, "2024-01-01"), day(t, "2024-01-10"),
		[]Commitment{
			commit(t, "2024-01-01", "2024-01-03", 3),
			commit(t, "2024-01-05", "2024-01-07", 3),
		})
	assert.Equal(t, 2, got)
}

func TestAvailableUnitsStackingOnSharedDay(t *testing.T) {
	// Both holds cover Jan 5: peak 4, stock 5 leaves 1.
	got := AvailableUnits(5,
		day(t, "2024-01-04"), day(t, "2024-01-06"),
		[]Commitment{
			commit(t, "2024-01-01", "2024-01-05", 2),
			commit(t, "2024-01-05", "2024-01-09", 2),
		})
	assert.Equal(t, 1, got)
}

func TestAvailableUnitsNeverNegative(t *testing.T) {
	got := AvailableUnits(2,
		day(t, "2024-01-01"), day(t, "2024-01-02"),
		[]Commitment{commit(t, "2024-01-01", "2024-01-02", 7)})
	assert.Equal(t, 0, got)
}

func TestAvailableUnitsInvalidRangeShortCircuits(t *testing.T) {
	got := AvailableUnits(10, day(t, "2024-01-05"), day(t, "2024-01-01"), nil)
	assert.Equal(t, 0, got)
}

func TestAvailableUnitsIdempotent(t *testing.T) {
	commitments := []Commitment{
		commit(t, "2024-01-10", "2024-01-12", 3),
		commit(t, "2024-01-12", "2024-01-15", 1),
	}
	first := AvailableUnits(5, day(t, "2024-01-11"), day(t, "2024-01-13"), commitments)
	second := AvailableUnits(5, day(t, "2024-01-11"), day(t, "2024-01-13"), commitments)
	assert.Equal(t, first, second)
}

func TestMaxDailyUsageCountsEdgeDays(t *testing.T) {
	// Commitment ending exactly on the range start still counts that day.
	got := MaxDailyUsage(day(t, "2024-01-12"), day(t, "2024-01-14"),
		[]Commitment{commit(t, "2024-01-10", "2024-01-12", 2)})
	assert.Equal(t, 2, got)

	// A commitment strictly before the range contributes nothing.
	got = MaxDailyUsage(day(t, "2024-01-13"), day(t, "2024-01-14"),
		[]Commitment{commit(t, "2024-01-10", "2024-01-12", 2)})
	assert.Equal(t, 0, got)
}

func TestPeakCommitted(t *testing.T) {
	assert.Equal(t, 0, PeakCommitted(nil))

	got := PeakCommitted([]Commitment{
		commit(t, "2024-01-01", "2024-01-05", 2),
		commit(t, "2024-01-04", "2024-01-08", 1),
		commit(t, "2024-02-01", "2024-02-02", 2),
	})
	// Jan 4-5 stack to 3.
	assert.Equal(t, 3, got)
}
