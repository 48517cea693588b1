package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"renta/model"
)

// GetContractData aggregates the order, its items, the owning profile and
// the company settings into the structure the public signing page and the
// PDF renderer consume. Addressed by signing token so no session is needed.
func GetContractData(q sqlx.Queryer, token string) (*model.ContractData, error) {
	var data model.ContractData
	err := sqlx.Get(q, &data, `
		SELECT
			o.id AS order_id, o.order_number, o.status,
			cs.company_name, cs.company_document, cs.company_address, cs.company_phone,
			cs.logo_url, cs.contract_clauses, cs.currency_symbol, cs.locale,
			p.display_name AS owner_name,
			o.customer_name, o.customer_document, o.customer_phone, o.customer_email, o.customer_address,
			o.start_date, o.end_date, o.duration_days, o.subtotal_per_day, o.total_amount,
			o.signature_image, o.signed_at
		FROM orders o
		JOIN profiles p ON p.id = o.user_id
		JOIN company_settings cs ON cs.id = 1
		WHERE o.signing_token = ?`,
		token)
	if err != nil {
		return nil, err
	}

	items, err := GetOrderItems(q, data.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract items: %w", err)
	}
	data.Items = items
	return &data, nil
}
