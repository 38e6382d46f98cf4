package fields

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mfish-station/invoice-ocr/constants"
)

var (
	invoiceFullPattern = regexp.MustCompile(`^[A-Z]{2}-\d{7,8}$`)
	dateFullPattern    = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}$`)
)

// Validate enforces each field's canonical grammar, in fixed order. A field
// that fails its check is nulled, never partially kept; the record itself is
// never an error. Address text correction runs first so a repaired address
// gets a fair validation.
func Validate(rec Record) Record {
	if rec.Address != "" {
		rec.Address = CorrectAddress(rec.Address)
	}
	if rec.InvoiceNumber != "" && !invoiceFullPattern.MatchString(rec.InvoiceNumber) {
		rec.InvoiceNumber = ""
	}
	if rec.Date != "" && !dateFullPattern.MatchString(rec.Date) {
		rec.Date = ""
	}
	if rec.Quantity != "" {
		if _, err := strconv.ParseFloat(rec.Quantity, 64); err != nil {
			rec.Quantity = ""
		}
	}
	if rec.FuelType != "" && !constants.IsCanonicalFuel(rec.FuelType) {
		rec.FuelType = ""
	}
	if rec.Address != "" && !validAddress(rec.Address) {
		rec.Address = ""
	}
	return rec
}

// validAddress requires a plausible street address: at least six characters,
// a house-number marker, and a known county/city token.
func validAddress(addr string) bool {
	return utf8.RuneCountInString(addr) >= 6 &&
		strings.Contains(addr, "號") &&
		constants.ContainsDistrict(addr)
}
