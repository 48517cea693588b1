package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/model"
)

func GetProduct(q sqlx.Queryer, id int64) (*model.Product, error) {
	var p model.Product
	err := sqlx.Get(q, &p, `SELECT * FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns the catalog, optionally filtered by a case-insensitive
// name fragment.
func ListProducts(q sqlx.Queryer, nameFilter string) ([]model.Product, error) {
	products := []model.Product{}
	if nameFilter != "" {
		err := sqlx.Select(q, &products,
			`SELECT * FROM products WHERE name LIKE ? COLLATE NOCASE ORDER BY name`,
			"%"+nameFilter+"%")
		return products, err
	}
	err := sqlx.Select(q, &products, `SELECT * FROM products ORDER BY name`)
	return products, err
}

func InsertProduct(e sqlx.Ext, in model.ProductInput) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := e.Exec(`
		INSERT INTO products (name, kind, total_quantity, price_per_day, replacement_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Kind, in.TotalQuantity, in.PricePerDay, in.ReplacementValue, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product %q: %w", in.Name, err)
	}
	return res.LastInsertId()
}

func UpdateProduct(e sqlx.Ext, id int64, in model.ProductInput) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := e.Exec(`
		UPDATE products
		SET name = ?, kind = ?, total_quantity = ?, price_per_day = ?, replacement_value = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, in.Kind, in.TotalQuantity, in.PricePerDay, in.ReplacementValue, now, id)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return nil
}

func DeleteProduct(e sqlx.Ext, id int64) error {
	_, err := e.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// CountNonTerminalReferences reports how many live orders still reference a
// product; deletion is blocked while this is non-zero.
func CountNonTerminalReferences(q sqlx.Queryer, productID int64) (int, error) {
	var count int
	err := sqlx.Get(q, &count, `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = ? AND o.status NOT IN ('returned', 'canceled')`,
		productID)
	if err != nil {
		return 0, fmt.Errorf("failed to count order references for product %d: %w", productID, err)
	}
	return count, nil
}
