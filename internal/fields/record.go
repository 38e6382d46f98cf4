// Package fields derives the five semantic invoice fields from recognized
// text lines, re-attempts misses against the fallback recognizer, and
// enforces each field's canonical grammar. Everything here is a pure
// function of its input lines.
package fields

// Record is the extraction result for one invoice region. An empty string
// means the field could not be derived or failed validation; a non-empty
// field always satisfies its canonical grammar once validated.
type Record struct {
	SourceID      string `json:"source_id"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Date          string `json:"date,omitempty"`
	FuelType      string `json:"fuel_type,omitempty"`
	Quantity      string `json:"quantity,omitempty"`
	Address       string `json:"address,omitempty"`
	Remarks       string `json:"remarks"`
}

// FailedRecord is the all-null record surfaced when a region's pipeline
// fails; the remark carries the diagnostic.
func FailedRecord(sourceID, remark string) Record {
	return Record{SourceID: sourceID, Remarks: remark}
}
