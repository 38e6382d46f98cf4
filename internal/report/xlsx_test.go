package report

import (
	"io"
	"log/slog"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/mfish-station/invoice-ocr/internal/fields"
)

var _ = Describe("Writer", func() {
	var w *Writer

	BeforeEach(func() {
		w = NewWriter(filepath.Join(GinkgoT().TempDir(), "reports"),
			slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	readRows := func(path string) [][]string {
		f, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		rows, err := f.GetRows(sheetName)
		Expect(err).NotTo(HaveOccurred())
		return rows
	}

	It("writes one row per record after the header, in order", func() {
		records := []fields.Record{
			{
				SourceID:      "page_1.png_block0.png",
				InvoiceNumber: "KF-26523895",
				Date:          "2023-05-10",
				FuelType:      "超級柴油",
				Quantity:      "30.6",
				Address:       "屏東縣萬巒鄉大同路123號",
			},
			{
				SourceID: "page_1.png_block1.png",
				Remarks:  "processing error: primary recognize: boom",
			},
		}

		path, err := w.Write(records)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(path)).To(HavePrefix("ocr_report_"))
		Expect(path).To(HaveSuffix(".xlsx"))

		rows := readRows(path)
		Expect(rows).To(HaveLen(3))
		Expect(rows[0]).To(Equal([]string{"頁數", "發票號碼", "日期", "種類", "數量", "地址", "備註"}))
		Expect(rows[1]).To(Equal([]string{
			"page_1.png_block0.png", "KF-26523895", "2023-05-10", "超級柴油", "30.6",
			"屏東縣萬巒鄉大同路123號",
		}))
		Expect(rows[2][0]).To(Equal("page_1.png_block1.png"))
		Expect(rows[2][6]).To(Equal("processing error: primary recognize: boom"))
	})

	It("writes a header-only workbook for an empty batch", func() {
		path, err := w.Write(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(readRows(path)).To(HaveLen(1))
	})

	It("creates the reports directory on demand and keeps names unique", func() {
		p1, err := w.Write(nil)
		Expect(err).NotTo(HaveOccurred())
		p2, err := w.Write(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p1).NotTo(Equal(p2))
	})
})
