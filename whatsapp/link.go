// Package whatsapp builds wa.me deep links with a templated message. Pure
// string formatting: no API is called.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"renta/model"
)

// NormalizePhone strips everything but digits and prefixes the country code
// when the length indicates a national number (10 or 11 digits). Length is
// the only signal: an area code may well equal the country code.
func NormalizePhone(raw, countryCode string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phone := digits.String()
	if phone == "" {
		return ""
	}
	if len(phone) == 10 || len(phone) == 11 {
		phone = countryCode + phone
	}
	return phone
}

// Link builds the deep link for an order: a greeting with the order number,
// period and localized total, plus the public signing URL.
func Link(o *model.Order, settings *model.CompanySettings, signingURL string) (string, error) {
	phone := NormalizePhone(o.CustomerPhone, settings.DefaultCountryCode)
	if phone == "" {
		return "", fmt.Errorf("order %s has no usable customer phone", o.OrderNumber)
	}

	text := fmt.Sprintf(
		"Hello %s! Here is your rental order %s (%s to %s). Total: %s. Review and sign here: %s",
		o.CustomerName, o.OrderNumber, o.StartDate, o.EndDate,
		FormatAmount(o.TotalAmount.InexactFloat64(), settings), signingURL)

	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(text), nil
}

// FormatAmount renders a money amount with the company's locale and symbol.
func FormatAmount(amount float64, settings *model.CompanySettings) string {
	tag, err := language.Parse(settings.Locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%s %v", settings.CurrencySymbol,
		number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
