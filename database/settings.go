package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/model"
)

func GetCompanySettings(q sqlx.Queryer) (*model.CompanySettings, error) {
	var s model.CompanySettings
	if err := sqlx.Get(q, &s, `SELECT * FROM company_settings WHERE id = 1`); err != nil {
		return nil, fmt.Errorf("failed to get company settings: %w", err)
	}
	return &s, nil
}

func SaveCompanySettings(e sqlx.Ext, s *model.CompanySettings) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := e.Exec(`
		UPDATE company_settings
		SET company_name = ?, company_document = ?, company_address = ?, company_phone = ?,
		    logo_url = ?, contract_clauses = ?, currency_symbol = ?, locale = ?,
		    default_country_code = ?, updated_at = ?
		WHERE id = 1`,
		s.CompanyName, s.CompanyDocument, s.CompanyAddress, s.CompanyPhone,
		s.LogoURL, s.ContractClauses, s.CurrencySymbol, s.Locale,
		s.DefaultCountryCode, now)
	if err != nil {
		return fmt.Errorf("failed to save company settings: %w", err)
	}
	return nil
}
