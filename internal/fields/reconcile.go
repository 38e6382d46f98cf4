package fields

// NeedsReconcile reports whether the costlier tertiary pass should run.
// Address is deliberately left out of the check and is never refilled by
// Reconcile; the fallback pass only repairs the other four fields.
func NeedsReconcile(rec Record) bool {
	return rec.InvoiceNumber == "" || rec.Date == "" || rec.Quantity == "" || rec.FuelType == ""
}

// Reconcile re-applies each still-missing field's strategy list against the
// tertiary engine's lines. Fields already present are kept as-is; fields the
// tertiary lines cannot supply stay empty.
func Reconcile(rec Record, tertiary []string) Record {
	if len(tertiary) == 0 {
		return rec
	}
	if rec.InvoiceNumber == "" {
		rec.InvoiceNumber, _ = applyStrategies(tertiary, invoiceNumberStrategies)
	}
	if rec.Date == "" {
		rec.Date, _ = applyStrategies(tertiary, dateStrategies)
	}
	if rec.Quantity == "" {
		rec.Quantity, _ = applyStrategies(tertiary, quantityStrategies)
	}
	if rec.FuelType == "" {
		rec.FuelType, _ = applyStrategies(tertiary, fuelTypeStrategies)
	}
	return rec
}
