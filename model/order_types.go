package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order lifecycle states. All display and
// guard logic goes through the lifecycle package; no handler re-derives
// status semantics from raw strings.
type OrderStatus string

const (
	StatusPendingSignature OrderStatus = "pending_signature"
	StatusSigned           OrderStatus = "signed"
	StatusReserved         OrderStatus = "reserved"
	StatusPickedUp         OrderStatus = "picked_up"
	StatusReturned         OrderStatus = "returned"
	StatusCanceled         OrderStatus = "canceled"
)

// FulfillmentType says whether the customer takes the equipment right away
// or the order holds stock for a future date.
type FulfillmentType string

const (
	FulfillmentImmediate   FulfillmentType = "immediate"
	FulfillmentReservation FulfillmentType = "reservation"
)

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

// Order represents a row of the orders table. Dates are inclusive
// "YYYY-MM-DD" strings; lifecycle timestamps are RFC 3339.
type Order struct {
	ID          int64           `db:"id" json:"id"`
	OrderNumber string          `db:"order_number" json:"orderNumber"`
	UserID      int64           `db:"user_id" json:"userId"`
	Status      OrderStatus     `db:"status" json:"status"`
	Fulfillment FulfillmentType `db:"fulfillment" json:"fulfillment"`
	Delivery    DeliveryMethod  `db:"delivery" json:"delivery"`

	CustomerName     string `db:"customer_name" json:"customerName"`
	CustomerDocument string `db:"customer_document" json:"customerDocument"`
	CustomerPhone    string `db:"customer_phone" json:"customerPhone"`
	CustomerEmail    string `db:"customer_email" json:"customerEmail"`
	CustomerAddress  string `db:"customer_address" json:"customerAddress"`

	StartDate string `db:"start_date" json:"startDate"`
	EndDate   string `db:"end_date" json:"endDate"`

	DurationDays   int             `db:"duration_days" json:"durationDays"`
	SubtotalPerDay decimal.Decimal `db:"subtotal_per_day" json:"subtotalPerDay"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"totalAmount"`

	SigningToken    string         `db:"signing_token" json:"-"`
	SignatureImage  sql.NullString `db:"signature_image" json:"signatureImage,omitempty"`
	SignedAt        sql.NullString `db:"signed_at" json:"signedAt,omitempty"`
	SignerIP        sql.NullString `db:"signer_ip" json:"signerIp,omitempty"`
	SignerUserAgent sql.NullString `db:"signer_user_agent" json:"signerUserAgent,omitempty"`
	PickedUpAt      sql.NullString `db:"picked_up_at" json:"pickedUpAt,omitempty"`
	ReturnedAt      sql.NullString `db:"returned_at" json:"returnedAt,omitempty"`
	CanceledAt      sql.NullString `db:"canceled_at" json:"canceledAt,omitempty"`

	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

// OrderItem captures the unit price at order time so later product price
// changes do not rewrite history.
type OrderItem struct {
	ID               int64           `db:"id" json:"id"`
	OrderID          int64           `db:"order_id" json:"orderId"`
	ProductID        int64           `db:"product_id" json:"productId"`
	ProductName      string          `db:"product_name" json:"productName"`
	Quantity         int             `db:"quantity" json:"quantity"`
	UnitPrice        decimal.Decimal `db:"unit_price" json:"unitPrice"`
	ReplacementValue decimal.Decimal `db:"replacement_value" json:"replacementValue"`
}

// OrderItemInput is one cart line from the frontend.
type OrderItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderInput is the create/edit payload for an order.
type OrderInput struct {
	CustomerName     string           `json:"customerName"`
	CustomerDocument string           `json:"customerDocument"`
	CustomerPhone    string           `json:"customerPhone"`
	CustomerEmail    string           `json:"customerEmail"`
	CustomerAddress  string           `json:"customerAddress"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	Fulfillment      FulfillmentType  `json:"fulfillment"`
	Delivery         DeliveryMethod   `json:"delivery"`
	Items            []OrderItemInput `json:"items"`
	// InitialStatus lets the operator record a contract that was already
	// signed on paper. Empty means pending_signature.
	InitialStatus OrderStatus `json:"initialStatus,omitempty"`
}
