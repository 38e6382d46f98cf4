package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mfish-station/invoice-ocr/constants"
)

var (
	invoicePattern      = regexp.MustCompile(`[A-Z]{2}-\d{7,8}`)
	westernDatePattern  = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}`)
	rocDatePattern      = regexp.MustCompile(`(\d{2,3})年(\d{1,2})[-/](\d{1,2})月`)
	quantityUnitPattern = regexp.MustCompile(`(\d+\.?\d*)\s*[lL公升]`)
	decimalPattern      = regexp.MustCompile(`\d+\.\d+`)
	digitPattern        = regexp.MustCompile(`\d`)

	// County/city token, up to 15 filler chars, a district-type suffix, up to
	// 30 filler chars, a road-type token, up to 30 filler chars, digits,
	// optionally ending in 號 (or its misread 号).
	addressPattern = regexp.MustCompile(
		`(台北|新北|桃園|新竹|苗栗|台中|彰化|南投|雲林|嘉義|台南|高雄|屏東|宜蘭|花蓮|台東|澎湖|金門|連江)[縣市]?` +
			`.{0,15}(鄉|鎮|市|區).{0,30}(路|街|巷|弄|大道|段).{0,30}\d+([-\d]*號?|号)?`)
)

// lineStrategy derives one candidate field value from a set of text lines.
// Strategies are pure; they report ok=false instead of failing.
type lineStrategy func(lines []string) (string, bool)

// applyStrategies runs the ordered strategy list and stops at first success.
func applyStrategies(lines []string, strategies []lineStrategy) (string, bool) {
	for _, s := range strategies {
		if v, ok := s(lines); ok {
			return v, true
		}
	}
	return "", false
}

var (
	invoiceNumberStrategies = []lineStrategy{invoiceByPattern}
	dateStrategies          = []lineStrategy{dateROCOrWestern}
	quantityStrategies      = []lineStrategy{quantityNearFuelKeyword, quantityFirstDecimal}
	fuelTypeStrategies      = []lineStrategy{fuelByKeyword}
	addressStrategies       = []lineStrategy{addressStrictGrammar, addressDistrictFallback}
)

// Extract derives the five fields from the recognized lines of one region.
// Primary lines come first in the combined corpus; invoice number and date
// search primary lines only, address searches secondary lines only.
func Extract(sourceID string, primary, secondary []string) Record {
	all := make([]string, 0, len(primary)+len(secondary))
	all = append(all, primary...)
	all = append(all, secondary...)

	rec := Record{SourceID: sourceID}
	rec.InvoiceNumber, _ = applyStrategies(primary, invoiceNumberStrategies)
	rec.Date, _ = applyStrategies(primary, dateStrategies)
	rec.Quantity, _ = applyStrategies(all, quantityStrategies)
	rec.FuelType, _ = applyStrategies(all, fuelTypeStrategies)
	rec.Address, _ = applyStrategies(secondary, addressStrategies)
	return rec
}

// invoiceByPattern matches the canonical invoice grammar after repairing
// known prefix misreads; first matching line wins.
func invoiceByPattern(lines []string) (string, bool) {
	for _, line := range lines {
		if m := invoicePattern.FindString(correctInvoiceText(line)); m != "" {
			return m, true
		}
	}
	return "", false
}

// dateROCOrWestern matches a Republic-calendar date and converts it, else a
// Western date. A line whose ROC form fails range checks yields nothing from
// that line; the scan moves on.
func dateROCOrWestern(lines []string) (string, bool) {
	for _, line := range lines {
		if m := rocDatePattern.FindStringSubmatch(line); m != nil {
			if d, ok := convertROCDate(m[1], m[2], m[3]); ok {
				return d, true
			}
			continue
		}
		if m := westernDatePattern.FindString(line); m != "" {
			return m, true
		}
	}
	return "", false
}

// convertROCDate maps a Minguo calendar date to Western form:
// western year = ROC year + 1911.
func convertROCDate(yearStr, monthStr, dayStr string) (string, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return "", false
	}
	day := 1
	if dayStr != "" {
		if day, err = strconv.Atoi(dayStr); err != nil {
			return "", false
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year+1911, month, day), true
}

// quantityNearFuelKeyword looks for an amount on a line naming a fuel, first
// with a volume unit, then as a bare decimal, then the same two checks on the
// immediately following line.
func quantityNearFuelKeyword(lines []string) (string, bool) {
	for i, line := range lines {
		if !containsFuelKeyword(line) {
			continue
		}
		if v, ok := quantityOnLine(line); ok {
			return v, true
		}
		if i+1 < len(lines) {
			if v, ok := quantityOnLine(lines[i+1]); ok {
				return v, true
			}
		}
	}
	return "", false
}

func quantityOnLine(line string) (string, bool) {
	if m := quantityUnitPattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := decimalPattern.FindString(line); m != "" {
		return m, true
	}
	return "", false
}

// quantityFirstDecimal is the unconditional corpus-wide fallback.
func quantityFirstDecimal(lines []string) (string, bool) {
	for _, line := range lines {
		if m := decimalPattern.FindString(line); m != "" {
			return m, true
		}
	}
	return "", false
}

func containsFuelKeyword(line string) bool {
	for _, kw := range constants.FuelKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// fuelByKeyword normalizes known misreads across the combined text, scans
// for fuel keywords, picks the longest literal present, and maps it to its
// canonical label.
func fuelByKeyword(lines []string) (string, bool) {
	combined := constants.NormalizeFuelText(strings.Join(lines, " "))
	kw, ok := constants.LongestFuelKeyword(combined)
	if !ok {
		return "", false
	}
	return constants.MapFuelKeyword(kw), true
}

// addressStrictGrammar returns the first line matching the full address
// grammar; the whole line is kept, not just the match.
func addressStrictGrammar(lines []string) (string, bool) {
	for _, line := range lines {
		if addressPattern.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

// addressDistrictFallback accepts a line naming a district that also carries
// 號 and at least one digit.
func addressDistrictFallback(lines []string) (string, bool) {
	for _, line := range lines {
		if constants.ContainsDistrict(line) && strings.Contains(line, "號") && digitPattern.MatchString(line) {
			return line, true
		}
	}
	return "", false
}
