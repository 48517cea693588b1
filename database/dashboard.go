package database

import (
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"renta/model"
)

// revenueRow is one signed, non-canceled order contributing to revenue.
type revenueRow struct {
	Month       string          `db:"month"`
	TotalAmount decimal.Decimal `db:"total_amount"`
}

// MonthlyRevenue aggregates revenue by start month over signed orders.
// Summation happens in Go so money stays exact decimal; SQLite only groups.
func MonthlyRevenue(q sqlx.Queryer, fromMonth string) ([]model.MonthlyRevenue, error) {
	rows := []revenueRow{}
	err := sqlx.Select(q, &rows, `
		SELECT substr(start_date, 1, 7) AS month, total_amount
		FROM orders
		WHERE signed_at IS NOT NULL
		  AND status != 'canceled'
		  AND substr(start_date, 1, 7) >= ?`,
		fromMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue rows: %w", err)
	}

	byMonth := map[string]*model.MonthlyRevenue{}
	for _, r := range rows {
		m, ok := byMonth[r.Month]
		if !ok {
			m = &model.MonthlyRevenue{Month: r.Month, Revenue: decimal.Zero}
			byMonth[r.Month] = m
		}
		m.Revenue = m.Revenue.Add(r.TotalAmount)
		m.Orders++
	}

	result := make([]model.MonthlyRevenue, 0, len(byMonth))
	for _, m := range byMonth {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

func StatusCounts(q sqlx.Queryer) ([]model.StatusCount, error) {
	counts := []model.StatusCount{}
	err := sqlx.Select(q, &counts, `
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
		ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return counts, nil
}

// ActiveRentals sums, per product, the quantity held by stock-committing
// orders whose range covers the given day.
func ActiveRentals(q sqlx.Queryer, day string) ([]model.ActiveRental, error) {
	rentals := []model.ActiveRental{}
	err := sqlx.Select(q, &rentals, `
		SELECT oi.product_id, p.name AS product_name, SUM(oi.quantity) AS committed, p.total_quantity AS total_stock
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status IN `+committingStatusSet+`
		  AND o.start_date <= ? AND o.end_date >= ?
		GROUP BY oi.product_id, p.name, p.total_quantity
		ORDER BY committed DESC`,
		day, day)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate active rentals: %w", err)
	}
	return rentals, nil
}

// CountAwaitingSignature counts unsigned reservations. Shown on the
// dashboard timeline but never counted against availability.
func CountAwaitingSignature(q sqlx.Queryer) (int, error) {
	var count int
	err := sqlx.Get(q, &count,
		`SELECT COUNT(*) FROM orders WHERE status = 'pending_signature'`)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending signatures: %w", err)
	}
	return count, nil
}
