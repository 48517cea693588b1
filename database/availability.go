package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"renta/availability"
)

// committedRow is the raw overlap-query result before date parsing.
type committedRow struct {
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
	Quantity  int    `db:"quantity"`
}

// Statuses whose order items hold stock. pending_signature is deliberately
// absent: an unsigned reservation commits nothing (see DESIGN.md).
const committingStatusSet = `('reserved', 'signed', 'picked_up')`

// FetchCommitments returns the order items of stock-committing orders for a
// product whose date range overlaps [startDate, endDate]. excludeOrderID
// drops the order being edited so it cannot collide with itself; pass 0 for
// none.
func FetchCommitments(q sqlx.Queryer, productID int64, startDate, endDate string, excludeOrderID int64) ([]availability.Commitment, error) {
	rows := []committedRow{}
	err := sqlx.Select(q, &rows, `
		SELECT o.start_date, o.end_date, oi.quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = ?
		  AND o.status IN `+committingStatusSet+`
		  AND o.start_date <= ?
		  AND o.end_date >= ?
		  AND o.id != ?`,
		productID, endDate, startDate, excludeOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commitments for product %d: %w", productID, err)
	}
	return parseCommitments(rows)
}

// FetchAllCommitments returns every stock-committing item for a product
// regardless of date, for the stock-reduction guard.
func FetchAllCommitments(q sqlx.Queryer, productID int64, excludeOrderID int64) ([]availability.Commitment, error) {
	rows := []committedRow{}
	err := sqlx.Select(q, &rows, `
		SELECT o.start_date, o.end_date, oi.quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = ?
		  AND o.status IN `+committingStatusSet+`
		  AND o.id != ?`,
		productID, excludeOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active commitments for product %d: %w", productID, err)
	}
	return parseCommitments(rows)
}

func parseCommitments(rows []committedRow) ([]availability.Commitment, error) {
	commitments := make([]availability.Commitment, 0, len(rows))
	for _, r := range rows {
		start, err := availability.ParseDate(r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("bad start_date %q in committed order: %w", r.StartDate, err)
		}
		end, err := availability.ParseDate(r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("bad end_date %q in committed order: %w", r.EndDate, err)
		}
		commitments = append(commitments, availability.Commitment{Start: start, End: end, Quantity: r.Quantity})
	}
	return commitments, nil
}
