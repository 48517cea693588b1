package model

// CompanySettings is the single-row company_settings table backing contract
// headers, locale formatting and WhatsApp defaults.
type CompanySettings struct {
	ID                 int64  `db:"id" json:"id"`
	CompanyName        string `db:"company_name" json:"companyName"`
	CompanyDocument    string `db:"company_document" json:"companyDocument"`
	CompanyAddress     string `db:"company_address" json:"companyAddress"`
	CompanyPhone       string `db:"company_phone" json:"companyPhone"`
	LogoURL            string `db:"logo_url" json:"logoUrl"`
	ContractClauses    string `db:"contract_clauses" json:"contractClauses"`
	CurrencySymbol     string `db:"currency_symbol" json:"currencySymbol"`
	Locale             string `db:"locale" json:"locale"`
	DefaultCountryCode string `db:"default_country_code" json:"defaultCountryCode"`
	UpdatedAt          string `db:"updated_at" json:"updatedAt"`
}

// Profile is an operator account. Orders and settings rows are stamped with
// the owning profile's id.
type Profile struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	DisplayName  string `db:"display_name" json:"displayName"`
	PasswordHash string `db:"password_hash" json:"-"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
}
