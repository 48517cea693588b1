package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renta/database"
	"renta/testdb"
)

func TestNextSequenceFormatsAndIncrements(t *testing.T) {
	db := testdb.Open(t)

	tx, err := db.Beginx()
	require.NoError(t, err)
	first, err := database.NextSequenceInTx(tx, "OR", "OR", 6)
	require.NoError(t, err)
	second, err := database.NextSequenceInTx(tx, "OR", "OR", 6)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "OR000001", first)
	assert.Equal(t, "OR000002", second)
}

func TestNextSequenceUnknownName(t *testing.T) {
	db := testdb.Open(t)

	tx, err := db.Beginx()
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = database.NextSequenceInTx(tx, "NOPE", "NO", 4)
	assert.Error(t, err)
}

func TestRolledBackSequenceNumberIsReused(t *testing.T) {
	db := testdb.Open(t)

	tx, err := db.Beginx()
	require.NoError(t, err)
	first, err := database.NextSequenceInTx(tx, "OR", "OR", 6)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	tx, err = db.Beginx()
	require.NoError(t, err)
	again, err := database.NextSequenceInTx(tx, "OR", "OR", 6)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, first, again, "a rolled-back order must not burn its number")
}

func TestInitializeSequenceFromMaxOrderNumber(t *testing.T) {
	db := testdb.Open(t)

	now := "2024-01-01T00:00:00Z"
	_, err := db.Exec(`
		INSERT INTO orders (
			order_number, user_id, status, fulfillment, delivery,
			customer_name, start_date, end_date, duration_days,
			subtotal_per_day, total_amount, signing_token, created_at, updated_at
		) VALUES ('OR000041', 1, 'returned', 'reservation', 'pickup', 'X', '2024-01-01', '2024-01-01', 1, '0', '0', 'tk-41', ?, ?)`,
		now, now)
	require.NoError(t, err)

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, database.InitializeSequenceFromMaxOrderNumber(tx))
	next, err := database.NextSequenceInTx(tx, "OR", "OR", 6)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "OR000042", next)
}
