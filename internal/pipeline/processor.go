// Package pipeline runs the per-region extraction flow and orchestrates it
// across a whole document under bounded concurrency.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfish-station/invoice-ocr/internal/engine"
	"github.com/mfish-station/invoice-ocr/internal/fields"
	"github.com/mfish-station/invoice-ocr/internal/segment"
)

// Processor runs one region through recognize → extract → reconcile →
// validate. It never returns an error: any failure inside a region is
// absorbed into an all-null record with a diagnostic remark so sibling
// regions are unaffected.
type Processor struct {
	primary   engine.Engine
	secondary engine.Engine
	tertiary  engine.Engine
	logger    *slog.Logger
}

func NewProcessor(reg *engine.Registry, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		primary:   reg.Primary,
		secondary: reg.Secondary,
		tertiary:  reg.Tertiary,
		logger:    logger,
	}
}

// ProcessRegion extracts the invoice fields from one region crop.
func (p *Processor) ProcessRegion(ctx context.Context, r segment.Region) (rec fields.Record) {
	defer func() {
		if v := recover(); v != nil {
			p.logger.Error("region pipeline panicked", "source", r.SourceID, "panic", v)
			rec = fields.FailedRecord(r.SourceID, fmt.Sprintf("processing error: %v", v))
		}
	}()

	primaryLines, err := p.primary.Recognize(ctx, r.Path)
	if err != nil {
		return p.failed(r, "primary recognize", err)
	}
	secondaryLines, err := p.secondary.Recognize(ctx, r.Path)
	if err != nil {
		return p.failed(r, "secondary recognize", err)
	}

	rec = fields.Extract(r.SourceID, engine.Texts(primaryLines), engine.Texts(secondaryLines))

	if fields.NeedsReconcile(rec) {
		// The tertiary engine is best-effort: errors or an empty result
		// leave the missing fields null rather than failing the region.
		tertiaryLines, terr := p.tertiary.Recognize(ctx, r.Path)
		if terr != nil {
			p.logger.Warn("tertiary recognize failed", "source", r.SourceID, "error", terr)
		} else {
			rec = fields.Reconcile(rec, engine.Texts(tertiaryLines))
		}
	}

	rec = fields.Validate(rec)
	p.logger.Debug("region processed",
		"source", r.SourceID,
		"invoice_number", rec.InvoiceNumber,
		"date", rec.Date,
		"fuel_type", rec.FuelType,
		"quantity", rec.Quantity,
	)
	return rec
}

func (p *Processor) failed(r segment.Region, stage string, err error) fields.Record {
	p.logger.Error("region pipeline failed", "source", r.SourceID, "stage", stage, "error", err)
	return fields.FailedRecord(r.SourceID, fmt.Sprintf("processing error: %s: %v", stage, err))
}
