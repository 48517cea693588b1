// Package pricing computes rental quotes: inclusive-date duration times the
// per-day subtotal of the cart. All arithmetic is exact decimal; formatting
// happens at the contract/display boundary only.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for rental dates.
const DateFormat = "2006-01-02"

// Line is one cart entry: the denormalized unit price and the quantity.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote is the result of ComputeTotal.
type Quote struct {
	DurationDays   int             `json:"durationDays"`
	SubtotalPerDay decimal.Decimal `json:"subtotalPerDay"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// DurationDays returns the inclusive day count of [start, end], never less
// than 1. Callers validate start <= end separately; this only measures.
func DurationDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// ComputeTotal prices a date range against a cart. Missing dates or an empty
// cart yield the zero quote {1, 0, 0}. Recomputed on every date or item
// change; pure, no side effects.
func ComputeTotal(startDate, endDate string, lines []Line) Quote {
	zero := Quote{DurationDays: 1, SubtotalPerDay: decimal.Zero, TotalAmount: decimal.Zero}
	if startDate == "" || endDate == "" || len(lines) == 0 {
		return zero
	}
	start, err := time.Parse(DateFormat, startDate)
	if err != nil {
		return zero
	}
	end, err := time.Parse(DateFormat, endDate)
	if err != nil {
		return zero
	}

	days := DurationDays(start, end)
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return Quote{
		DurationDays:   days,
		SubtotalPerDay: subtotal,
		TotalAmount:    subtotal.Mul(decimal.NewFromInt(int64(days))),
	}
}
