package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotalThreeDayRange(t *testing.T) {
	// 100x2 + 50x1 over an inclusive 3-day range.
	q := ComputeTotal("2024-01-01", "2024-01-03", []Line{
		{UnitPrice: d("100"), Quantity: 2},
		{UnitPrice: d("50"), Quantity: 1},
	})
	assert.Equal(t, 3, q.DurationDays)
	assert.True(t, q.SubtotalPerDay.Equal(d("250")), "subtotal = %s", q.SubtotalPerDay)
	assert.True(t, q.TotalAmount.Equal(d("750")), "total = %s", q.TotalAmount)
}

func TestComputeTotalSingleDayIsOneDay(t *testing.T) {
	q := ComputeTotal("2024-05-10", "2024-05-10", []Line{{UnitPrice: d("19.90"), Quantity: 3}})
	assert.Equal(t, 1, q.DurationDays)
	assert.True(t, q.TotalAmount.Equal(d("59.70")))
}

func TestComputeTotalEmptyInputsYieldZeroQuote(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		lines      []Line
	}{
		{"no items", "2024-01-01", "2024-01-03", nil},
		{"no start", "", "2024-01-03", []Line{{UnitPrice: d("10"), Quantity: 1}}},
		{"no end", "2024-01-01", "", []Line{{UnitPrice: d("10"), Quantity: 1}}},
		{"garbage date", "not-a-date", "2024-01-03", []Line{{UnitPrice: d("10"), Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := ComputeTotal(tc.start, tc.end, tc.lines)
			assert.Equal(t, 1, q.DurationDays)
			assert.True(t, q.SubtotalPerDay.IsZero())
			assert.True(t, q.TotalAmount.IsZero())
		})
	}
}

func TestDurationDaysInclusiveAndClamped(t *testing.T) {
	day := func(s string) time.Time {
		v, err := time.Parse(DateFormat, s)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	assert.Equal(t, 1, DurationDays(day("2024-01-10"), day("2024-01-10")))
	assert.Equal(t, 2, DurationDays(day("2024-01-10"), day("2024-01-11")))
	assert.Equal(t, 31, DurationDays(day("2024-01-01"), day("2024-01-31")))
	// Inverted input never goes below one day.
	assert.Equal(t, 1, DurationDays(day("2024-01-11"), day("2024-01-10")))
}

func TestComputeTotalKeepsDecimalPrecision(t *testing.T) {
	q := ComputeTotal("2024-01-01", "2024-01-07", []Line{{UnitPrice: d("0.10"), Quantity: 3}})
	assert.Equal(t, 7, q.DurationDays)
	assert.True(t, q.TotalAmount.Equal(d("2.10")), "total = %s", q.TotalAmount)
}
