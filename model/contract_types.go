package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// ContractData is the aggregated structure the public signing page and the
// PDF renderer consume: order, items, owning company and customer in one
// fetch, all fields either pre-formatted or in well-defined raw form.
type ContractData struct {
	OrderID     int64       `db:"order_id" json:"orderId"`
	OrderNumber string      `db:"order_number" json:"orderNumber"`
	Status      OrderStatus `db:"status" json:"status"`

	CompanyName     string `db:"company_name" json:"companyName"`
	CompanyDocument string `db:"company_document" json:"companyDocument"`
	CompanyAddress  string `db:"company_address" json:"companyAddress"`
	CompanyPhone    string `db:"company_phone" json:"companyPhone"`
	LogoURL         string `db:"logo_url" json:"logoUrl"`
	ContractClauses string `db:"contract_clauses" json:"contractClauses"`
	CurrencySymbol  string `db:"currency_symbol" json:"currencySymbol"`
	Locale          string `db:"locale" json:"locale"`
	OwnerName       string `db:"owner_name" json:"ownerName"`

	CustomerName     string `db:"customer_name" json:"customerName"`
	CustomerDocument string `db:"customer_document" json:"customerDocument"`
	CustomerPhone    string `db:"customer_phone" json:"customerPhone"`
	CustomerEmail    string `db:"customer_email" json:"customerEmail"`
	CustomerAddress  string `db:"customer_address" json:"customerAddress"`

	StartDate      string          `db:"start_date" json:"startDate"`
	EndDate        string          `db:"end_date" json:"endDate"`
	DurationDays   int             `db:"duration_days" json:"durationDays"`
	SubtotalPerDay decimal.Decimal `db:"subtotal_per_day" json:"subtotalPerDay"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"totalAmount"`

	SignatureImage sql.NullString `db:"signature_image" json:"signatureImage,omitempty"`
	SignedAt       sql.NullString `db:"signed_at" json:"signedAt,omitempty"`

	Items []OrderItem `json:"items"`
}
