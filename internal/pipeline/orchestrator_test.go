package pipeline

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mfish-station/invoice-ocr/internal/engine"
	"github.com/mfish-station/invoice-ocr/internal/segment"
)

var _ = Describe("Orchestrator", func() {
	newOrch := func(cfg OrchestratorConfig, proc *Processor) *Orchestrator {
		return NewOrchestrator(cfg, nil, proc, nil, quietLogger())
	}

	It("returns records in segmentation order regardless of completion order", func() {
		// Each region encodes its index in its invoice number; later
		// regions finish first.
		primary := &stubEngine{name: "primary", recognize: func(path string) ([]engine.Line, error) {
			var idx int
			fmt.Sscanf(path, "page_1.png_block%d.png", &idx)
			time.Sleep(time.Duration(10-idx) * 2 * time.Millisecond)
			return textLines(fmt.Sprintf("KF-100000%02d", idx), "2023-05-10", "超級柴油 30.6L"), nil
		}}
		proc := newTestProcessor(primary, &stubEngine{name: "secondary"}, &stubEngine{name: "tertiary"})

		regions := make([]segment.Region, 10)
		for i := range regions {
			regions[i] = testRegion(i)
		}

		records := newOrch(OrchestratorConfig{MaxWorkers: 4}, proc).processAll(context.Background(), regions)
		Expect(records).To(HaveLen(10))
		for i, rec := range records {
			Expect(rec.SourceID).To(Equal(regions[i].SourceID))
			Expect(rec.InvoiceNumber).To(Equal(fmt.Sprintf("KF-100000%02d", i)))
		}
	})

	It("isolates one failing region from its siblings", func() {
		primary := &stubEngine{name: "primary", recognize: func(path string) ([]engine.Line, error) {
			if path == "page_1.png_block1.png" {
				return nil, fmt.Errorf("unreadable crop")
			}
			return textLines("KF-26523895", "2023-05-10", "超級柴油 30.6L"), nil
		}}
		proc := newTestProcessor(primary, &stubEngine{name: "secondary"}, &stubEngine{name: "tertiary"})

		regions := []segment.Region{testRegion(0), testRegion(1), testRegion(2)}
		records := newOrch(OrchestratorConfig{MaxWorkers: 2}, proc).processAll(context.Background(), regions)

		Expect(records[1].Remarks).To(HavePrefix("processing error"))
		Expect(records[1].InvoiceNumber).To(BeEmpty())
		Expect(records[0].InvoiceNumber).To(Equal("KF-26523895"))
		Expect(records[2].InvoiceNumber).To(Equal("KF-26523895"))
	})

	It("degrades a region that outlives its deadline to a failed record", func() {
		primary := &stubEngine{name: "primary", delay: 200 * time.Millisecond}
		proc := newTestProcessor(primary, &stubEngine{name: "secondary"}, &stubEngine{name: "tertiary"})

		records := newOrch(OrchestratorConfig{MaxWorkers: 1, RegionTimeout: 10 * time.Millisecond}, proc).
			processAll(context.Background(), []segment.Region{testRegion(0)})

		Expect(records).To(HaveLen(1))
		Expect(records[0].Remarks).To(HavePrefix("processing error"))
	})

	It("handles an empty region list", func() {
		proc := newTestProcessor(&stubEngine{}, &stubEngine{}, &stubEngine{})
		records := newOrch(OrchestratorConfig{}, proc).processAll(context.Background(), nil)
		Expect(records).To(BeEmpty())
	})
})
