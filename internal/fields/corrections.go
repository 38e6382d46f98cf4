package fields

import (
	"strings"

	"github.com/mfish-station/invoice-ocr/constants"
)

// invoiceCorrections repair known OCR misreads of invoice-number prefixes.
// Order is significant: multi-character fixes run before the single-character
// sweeps so "|(F-" becomes "KF-" rather than "J(F-".
var invoiceCorrections = []constants.Replacement{
	{From: "|(F-", To: "KF-"},
	{From: "|F-", To: "KF-"},
	{From: ";0-%", To: "KA-99"},
	{From: "00-", To: "JJ-"},
	{From: "0-", To: "J-"},
	{From: "%", To: "9"},
	{From: ";", To: "K"},
	{From: "|", To: "J"},
}

// correctInvoiceText applies the misread table to one recognized line.
func correctInvoiceText(line string) string {
	for _, r := range invoiceCorrections {
		line = strings.ReplaceAll(line, r.From, r.To)
	}
	return line
}

// addressCorrections repair garbled address characters. Order preserved:
// the multi-character entry must run before its constituent single
// characters are rewritten or stripped.
var addressCorrections = []constants.Replacement{
	{From: "半禹锈娜", To: "萬巒鄉"},
	{From: "号", To: "號"},
	{From: "锈", To: ""},
	{From: "娜", To: ""},
	{From: "潮洲", To: "潮州"},
	{From: "川", To: "州"},
	{From: "鎖", To: "鎮"},
}

// CorrectAddress applies the garbled-character table to an address.
func CorrectAddress(addr string) string {
	for _, r := range addressCorrections {
		addr = strings.ReplaceAll(addr, r.From, r.To)
	}
	return addr
}
