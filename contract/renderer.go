// Package contract renders the printable rental contract: aggregated order
// data into standalone HTML, then through a headless browser into PDF.
package contract

import (
	"bytes"
	"fmt"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"renta/model"
)

var tmpl = template.Must(template.New("contract").Parse(contractTemplate))

// viewItem is an order item with money pre-formatted for the document.
type viewItem struct {
	ProductName      string
	Quantity         int
	UnitPrice        string
	ReplacementValue string
}

type viewData struct {
	Locale      string
	OrderNumber string
	LogoURL     string

	CompanyName     string
	CompanyDocument string
	CompanyAddress  string
	CompanyPhone    string

	CustomerName     string
	CustomerDocument string
	CustomerAddress  string
	CustomerPhone    string
	CustomerEmail    string

	StartDate      string
	EndDate        string
	DurationDays   int
	SubtotalPerDay string
	TotalAmount    string

	Clauses        string
	SignatureImage template.URL
	SignedAt       string

	Items []viewItem
}

// RenderHTML produces the standalone contract document. All currency fields
// are formatted here with the company locale; the template only places them.
func RenderHTML(data *model.ContractData) ([]byte, error) {
	tag, err := language.Parse(data.Locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	money := func(v float64) string {
		return p.Sprintf("%s %v", data.CurrencySymbol,
			number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}

	view := viewData{
		Locale:           data.Locale,
		OrderNumber:      data.OrderNumber,
		LogoURL:          data.LogoURL,
		CompanyName:      data.CompanyName,
		CompanyDocument:  data.CompanyDocument,
		CompanyAddress:   data.CompanyAddress,
		CompanyPhone:     data.CompanyPhone,
		CustomerName:     data.CustomerName,
		CustomerDocument: data.CustomerDocument,
		CustomerAddress:  data.CustomerAddress,
		CustomerPhone:    data.CustomerPhone,
		CustomerEmail:    data.CustomerEmail,
		StartDate:        data.StartDate,
		EndDate:          data.EndDate,
		DurationDays:     data.DurationDays,
		SubtotalPerDay:   money(data.SubtotalPerDay.InexactFloat64()),
		TotalAmount:      money(data.TotalAmount.InexactFloat64()),
		Clauses:          data.ContractClauses,
	}
	if data.SignatureImage.Valid {
		// Signature images are data: URLs captured by the signing pad.
		view.SignatureImage = template.URL(data.SignatureImage.String)
	}
	if data.SignedAt.Valid {
		view.SignedAt = data.SignedAt.String
	}
	for _, it := range data.Items {
		view.Items = append(view.Items, viewItem{
			ProductName:      it.ProductName,
			Quantity:         it.Quantity,
			UnitPrice:        money(it.UnitPrice.InexactFloat64()),
			ReplacementValue: money(it.ReplacementValue.InexactFloat64()),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render contract %s: %w", data.OrderNumber, err)
	}
	return buf.Bytes(), nil
}
