package model

import "github.com/shopspring/decimal"

// MonthlyRevenue is one bar of the dashboard revenue chart. Month is
// "YYYY-MM"; only signed, non-canceled orders count.
type MonthlyRevenue struct {
	Month   string          `db:"month" json:"month"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
	Orders  int             `db:"orders" json:"orders"`
}

// StatusCount is the orders-by-status breakdown.
type StatusCount struct {
	Status OrderStatus `db:"status" json:"status"`
	Count  int         `db:"count" json:"count"`
}

// ActiveRental aggregates, per product, the quantity committed by active
// orders whose range covers today. Backs the "out right now" panel.
type ActiveRental struct {
	ProductID   int64  `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`
	Committed   int    `db:"committed" json:"committed"`
	TotalStock  int    `db:"total_stock" json:"totalStock"`
}

// DashboardSummary is the single payload of /api/dashboard/summary.
type DashboardSummary struct {
	MonthlyRevenue    []MonthlyRevenue `json:"monthlyRevenue"`
	StatusCounts      []StatusCount    `json:"statusCounts"`
	ActiveRentals     []ActiveRental   `json:"activeRentals"`
	AwaitingSignature int              `json:"awaitingSignature"`
}
