// Package testdb opens a fresh in-memory SQLite database with the real
// schema for package tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"renta/loader"
	"renta/model"
)

// Open returns a schema-initialized in-memory database. A single connection
// is kept so the memory database survives across queries.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := loader.InitDatabase(db); err != nil {
		t.Fatalf("failed to initialize test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedProduct inserts a product and returns its id.
func SeedProduct(t *testing.T, db *sqlx.DB, name string, kind model.ProductKind, totalQty int, pricePerDay string) int64 {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(`
		INSERT INTO products (name, kind, total_quantity, price_per_day, replacement_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, '0', ?, ?)`,
		name, kind, totalQty, pricePerDay, now, now)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	id, _ := res.LastInsertId()
	return id
}

var seedCounter int64

// SeedOrder inserts an order with one item and returns the order id. The
// seeded profile (id 1) owns it.
func SeedOrder(t *testing.T, db *sqlx.DB, status model.OrderStatus, start, end string, productID int64, qty int) int64 {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)
	n := atomic.AddInt64(&seedCounter, 1)
	res, err := db.Exec(`
		INSERT INTO orders (
			order_number, user_id, status, fulfillment, delivery,
			customer_name, start_date, end_date, duration_days,
			subtotal_per_day, total_amount, signing_token, created_at, updated_at
		) VALUES (?, 1, ?, 'reservation', 'pickup', 'Test Customer', ?, ?, 1, '0', '0', ?, ?, ?)`,
		fmt.Sprintf("SEED%06d", n), status, start, end, fmt.Sprintf("seed-token-%d", n), now, now)
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	orderID, _ := res.LastInsertId()

	_, err = db.Exec(`
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, replacement_value)
		VALUES (?, ?, 'Seeded', ?, '10', '0')`,
		orderID, productID, qty)
	if err != nil {
		t.Fatalf("failed to seed order item: %v", err)
	}
	return orderID
}
