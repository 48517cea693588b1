package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"renta/model"
)

func GetOrderItems(q sqlx.Queryer, orderID int64) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	err := sqlx.Select(q, &items,
		`SELECT * FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for order %d: %w", orderID, err)
	}
	return items, nil
}

func InsertOrderItemsInTx(tx *sqlx.Tx, orderID int64, items []model.OrderItem) error {
	for _, it := range items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, replacement_value)
			VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.ReplacementValue)
		if err != nil {
			return fmt.Errorf("failed to insert item for order %d product %d: %w", orderID, it.ProductID, err)
		}
	}
	return nil
}

// ReplaceOrderItemsInTx swaps an order's item set inside the caller's
// transaction, so a failure between delete and insert rolls back as one.
func ReplaceOrderItemsInTx(tx *sqlx.Tx, orderID int64, items []model.OrderItem) error {
	if _, err := tx.Exec(`DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("failed to clear items for order %d: %w", orderID, err)
	}
	return InsertOrderItemsInTx(tx, orderID, items)
}
