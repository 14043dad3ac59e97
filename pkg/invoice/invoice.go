// Package invoice turns settled payments into one-page PDF receipts.
package invoice

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the content of one receipt. It lives only as long as the PDF
// buffer and email built from it.
type Invoice struct {
	Number   string
	Name     string
	Email    string
	Amount   string // minor currency unit, raw from the provider
	BillID   string
	PaidAt   string // raw provider timestamp, may be empty
	IssuedAt time.Time
}

// Letterhead holds the fixed issuer text printed on every invoice.
type Letterhead struct {
	IssuerName  string
	Website     string
	Title       string
	Description string
	Currency    string
	ThankYou    string
}

// DefaultLetterhead returns the Easy Latih letterhead.
func DefaultLetterhead() Letterhead {
	return Letterhead{
		IssuerName:  "Easy Latih Consultancy",
		Website:     "www.easylatih.my",
		Title:       "TAX INVOICE / RECEIPT",
		Description: "Training Registration Fee",
		Currency:    "RM",
		ThankYou:    "Thank you for your payment.",
	}
}

var minorUnits = regexp.MustCompile(`^-?[0-9]+$`)

// FormatAmount converts a minor-unit amount to major units with exactly two
// decimals. Anything but an optionally signed integer formats as "0.00".
func FormatAmount(minor string) string {
	minor = strings.TrimSpace(minor)
	if !minorUnits.MatchString(minor) {
		return "0.00"
	}
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return "0.00"
	}
	return d.Shift(-2).StringFixed(2)
}
