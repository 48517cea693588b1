package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renta/database"
	"renta/model"
	"renta/testdb"
)

func TestMonthlyRevenueCountsOnlySignedNonCanceled(t *testing.T) {
	db := testdb.Open(t)

	now := "2024-02-01T10:00:00Z"
	insert := func(number, status, signedAt, startDate, total string) {
		query := `
			INSERT INTO orders (
				order_number, user_id, status, fulfillment, delivery,
				customer_name, start_date, end_date, duration_days,
				subtotal_per_day, total_amount, signing_token, signed_at, created_at, updated_at
			) VALUES (?, 1, ?, 'reservation', 'pickup', 'X', ?, ?, 1, '0', ?, ?, ?, ?, ?)`
		var signed interface{}
		if signedAt != "" {
			signed = signedAt
		}
		_, err := db.Exec(query, number, status, startDate, startDate, total, "tok-"+number, signed, now, now)
		require.NoError(t, err)
	}

	insert("OR000001", "returned", now, "2024-02-10", "750")
	insert("OR000002", "picked_up", now, "2024-02-20", "100.50")
	insert("OR000003", "canceled", now, "2024-02-25", "999")
	insert("OR000004", "pending_signature", "", "2024-02-26", "500")
	insert("OR000005", "returned", now, "2024-03-05", "200")

	revenue, err := database.MonthlyRevenue(db, "2024-01")
	require.NoError(t, err)
	require.Len(t, revenue, 2)

	assert.Equal(t, "2024-02", revenue[0].Month)
	assert.Equal(t, 2, revenue[0].Orders)
	assert.True(t, revenue[0].Revenue.Equal(decimalFromString(t, "850.50")),
		"february revenue = %s", revenue[0].Revenue)

	assert.Equal(t, "2024-03", revenue[1].Month)
	assert.True(t, revenue[1].Revenue.Equal(decimalFromString(t, "200")))
}

func TestActiveRentalsCoversToday(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Projector", model.KindBulk, 6, "40")

	today := time.Now().UTC().Format("2006-01-02")
	testdb.SeedOrder(t, db, model.StatusPickedUp, today, today, productID, 2)
	testdb.SeedOrder(t, db, model.StatusReserved, today, today, productID, 1)
	// Pending signatures never show as committed.
	testdb.SeedOrder(t, db, model.StatusPendingSignature, today, today, productID, 4)

	rentals, err := database.ActiveRentals(db, today)
	require.NoError(t, err)
	require.Len(t, rentals, 1)
	assert.Equal(t, productID, rentals[0].ProductID)
	assert.Equal(t, 3, rentals[0].Committed)
	assert.Equal(t, 6, rentals[0].TotalStock)
}

func TestStatusCountsAndAwaitingSignature(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Heater", model.KindBulk, 3, "25")
	testdb.SeedOrder(t, db, model.StatusPendingSignature, "2024-01-01", "2024-01-02", productID, 1)
	testdb.SeedOrder(t, db, model.StatusPendingSignature, "2024-01-03", "2024-01-04", productID, 1)
	testdb.SeedOrder(t, db, model.StatusReturned, "2024-01-05", "2024-01-06", productID, 1)

	counts, err := database.StatusCounts(db)
	require.NoError(t, err)
	byStatus := map[model.OrderStatus]int{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, 2, byStatus[model.StatusPendingSignature])
	assert.Equal(t, 1, byStatus[model.StatusReturned])

	awaiting, err := database.CountAwaitingSignature(db)
	require.NoError(t, err)
	assert.Equal(t, 2, awaiting)
}
