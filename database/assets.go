package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/model"
)

func ListAssets(q sqlx.Queryer, productID int64) ([]model.Asset, error) {
	assets := []model.Asset{}
	err := sqlx.Select(q, &assets,
		`SELECT * FROM assets WHERE product_id = ? ORDER BY serial_number`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets for product %d: %w", productID, err)
	}
	return assets, nil
}

func InsertAsset(e sqlx.Ext, productID int64, serialNumber, condition string) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := e.Exec(`
		INSERT INTO assets (product_id, serial_number, condition, created_at)
		VALUES (?, ?, ?, ?)`,
		productID, serialNumber, condition, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert asset %q for product %d: %w", serialNumber, productID, err)
	}
	return res.LastInsertId()
}

func DeleteAsset(e sqlx.Ext, id int64) error {
	_, err := e.Exec(`DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, err)
	}
	return nil
}

func CountAssets(q sqlx.Queryer, productID int64) (int, error) {
	var count int
	err := sqlx.Get(q, &count, `SELECT COUNT(*) FROM assets WHERE product_id = ?`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to count assets for product %d: %w", productID, err)
	}
	return count, nil
}
