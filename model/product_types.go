package model

import "github.com/shopspring/decimal"

// ProductKind distinguishes serial-tracked inventory from quantity-only inventory.
type ProductKind string

const (
	KindTrackable ProductKind = "trackable"
	KindBulk      ProductKind = "bulk"
)

func (k ProductKind) Valid() bool {
	return k == KindTrackable || k == KindBulk
}

// Product represents a row of the products table.
type Product struct {
	ID               int64           `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	Kind             ProductKind     `db:"kind" json:"kind"`
	TotalQuantity    int             `db:"total_quantity" json:"totalQuantity"`
	PricePerDay      decimal.Decimal `db:"price_per_day" json:"pricePerDay"`
	ReplacementValue decimal.Decimal `db:"replacement_value" json:"replacementValue"`
	CreatedAt        string          `db:"created_at" json:"createdAt"`
	UpdatedAt        string          `db:"updated_at" json:"updatedAt"`
}

// Asset is one serial-numbered unit of a trackable product.
type Asset struct {
	ID           int64  `db:"id" json:"id"`
	ProductID    int64  `db:"product_id" json:"productId"`
	SerialNumber string `db:"serial_number" json:"serialNumber"`
	Condition    string `db:"condition" json:"condition"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name             string          `json:"name"`
	Kind             ProductKind     `json:"kind"`
	TotalQuantity    int             `json:"totalQuantity"`
	PricePerDay      decimal.Decimal `json:"pricePerDay"`
	ReplacementValue decimal.Decimal `json:"replacementValue"`
}
