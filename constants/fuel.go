package constants

import (
	"strings"
	"unicode/utf8"
)

// FuelKeywords are the literals scanned for in recognized invoice text.
// Scan order matters only for ties; when several keywords are present the
// longest literal wins (most specific).
var FuelKeywords = []string{
	"超級柴油", "九五無鉛", "九二無鉛", "九八無鉛", "無鉛汽油", "超柴", "98號", "95號",
	"柴油", "九二", "九五", "九八", "92", "95", "98",
}

// fuelMapping maps a detected keyword to its canonical fuel label.
// Keywords absent from the map label as themselves.
var fuelMapping = map[string]string{
	"九五": "九五無鉛", "95": "九五無鉛", "九二": "九二無鉛", "92": "九二無鉛",
	"九八": "九八無鉛", "98": "九八無鉛", "超柴": "超級柴油", "柴油": "超級柴油",
}

// Replacement is one ordered text substitution.
type Replacement struct {
	From string
	To   string
}

// FuelFuzzyCorrections repair known OCR misreads of fuel substrings before
// keyword search. Applied in order; most specific entries come first.
var FuelFuzzyCorrections = []Replacement{
	{"無给", "無鉛"}, {"无给", "無鉛"}, {"無铅", "無鉛"}, {"无铅", "無鉛"},
	{"柴油机", "柴油"}, {"柴洒", "柴油"}, {"超柴", "超級柴油"}, {"超柴柴", "超級柴油"},
	{"九五無给", "九五無鉛"}, {"九五無铅", "九五無鉛"}, {"九二無给", "九二無鉛"},
	{"九八無给", "九八無鉛"}, {"95+無给", "九五無鉛"}, {"92+無给", "九二無鉛"},
	{"98+無给", "九八無鉛"}, {"超及柴油", "超級柴油"}, {"超级柴油", "超級柴油"},
}

// canonicalFuelLabels is the closed set of labels a validated record may carry.
var canonicalFuelLabels = map[string]struct{}{
	"九五無鉛": {}, "九二無鉛": {}, "九八無鉛": {}, "超級柴油": {},
}

// MapFuelKeyword resolves a detected keyword to its canonical label.
func MapFuelKeyword(keyword string) string {
	if mapped, ok := fuelMapping[keyword]; ok {
		return mapped
	}
	return keyword
}

// IsCanonicalFuel reports whether label belongs to the canonical label set.
func IsCanonicalFuel(label string) bool {
	_, ok := canonicalFuelLabels[label]
	return ok
}

// NormalizeFuelText applies the fuzzy correction table to text, in order.
func NormalizeFuelText(text string) string {
	for _, r := range FuelFuzzyCorrections {
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text
}

// LongestFuelKeyword returns the most specific fuel keyword present in text.
func LongestFuelKeyword(text string) (string, bool) {
	best := ""
	for _, kw := range FuelKeywords {
		if strings.Contains(text, kw) && utf8.RuneCountInString(kw) > utf8.RuneCountInString(best) {
			best = kw
		}
	}
	return best, best != ""
}
