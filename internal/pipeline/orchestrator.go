package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mfish-station/invoice-ocr/internal/fields"
	"github.com/mfish-station/invoice-ocr/internal/report"
	"github.com/mfish-station/invoice-ocr/internal/segment"
)

// Orchestrator drives a whole document: segment, fan out the per-region
// pipelines over a bounded worker pool, collect into index-addressed slots,
// and emit the report. Output order always equals segmentation order no
// matter which worker finishes first.
type Orchestrator struct {
	segmenter *segment.Segmenter
	processor *Processor
	reporter  *report.Writer
	logger    *slog.Logger

	maxWorkers    int
	regionTimeout time.Duration
}

// OrchestratorConfig bounds the worker pool and the per-region deadline.
// A zero RegionTimeout disables the deadline.
type OrchestratorConfig struct {
	MaxWorkers    int
	RegionTimeout time.Duration
}

func NewOrchestrator(cfg OrchestratorConfig, seg *segment.Segmenter, proc *Processor, rep *report.Writer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	return &Orchestrator{
		segmenter:     seg,
		processor:     proc,
		reporter:      rep,
		logger:        logger,
		maxWorkers:    cfg.MaxWorkers,
		regionTimeout: cfg.RegionTimeout,
	}
}

// Process converts one PDF into a spreadsheet report and the ordered record
// list. Only an unreadable PDF surfaces as an error; per-region failures are
// embedded in the records. Intermediate raster and crop files are purged on
// every exit path.
func (o *Orchestrator) Process(ctx context.Context, pdfPath string) (string, []fields.Record, error) {
	start := time.Now()

	regions, ws, err := o.segmenter.Segment(ctx, pdfPath)
	defer ws.Remove(o.logger)
	if err != nil {
		return "", nil, err
	}

	records := o.processAll(ctx, regions)

	reportPath, err := o.reporter.Write(records)
	if err != nil {
		return "", records, fmt.Errorf("write report: %w", err)
	}

	o.logger.Info("batch done",
		"pdf", pdfPath,
		"regions", len(regions),
		"report", reportPath,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return reportPath, records, nil
}

// processAll runs every region pipeline under the bounded pool and writes
// each result into the slot matching the region's segmentation index.
func (o *Orchestrator) processAll(ctx context.Context, regions []segment.Region) []fields.Record {
	records := make([]fields.Record, len(regions))
	if len(regions) == 0 {
		return records
	}

	workers := min(o.maxWorkers, len(regions), runtime.NumCPU())
	o.logger.Info("processing regions", "count", len(regions), "workers", workers)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, r := range regions {
		g.Go(func() error {
			rctx := ctx
			if o.regionTimeout > 0 {
				var cancel context.CancelFunc
				rctx, cancel = context.WithTimeout(ctx, o.regionTimeout)
				defer cancel()
			}
			records[r.Index] = o.processor.ProcessRegion(rctx, r)
			return nil
		})
	}
	// Tasks never return errors; Wait only blocks until all slots are filled.
	_ = g.Wait()
	return records
}
