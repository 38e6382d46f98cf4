// Package report renders batch results as an XLSX workbook, one row per
// segmented region in segmentation order.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/mfish-station/invoice-ocr/internal/fields"
)

const sheetName = "Invoices"

// Columns of the report, in order: page id, invoice number, date, fuel type,
// quantity, address, remarks.
var headers = []string{"頁數", "發票號碼", "日期", "種類", "數量", "地址", "備註"}

// Writer produces timestamped report files under a fixed directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "./reports"
	}
	return &Writer{dir: dir, logger: logger}
}

// Write renders the records into a new workbook and returns its path.
func (w *Writer) Write(records []fields.Record) (string, error) {
	start := time.Now()

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("drop default sheet: %w", err)
	}

	setCell := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheetName, cell, v)
	}

	for i, h := range headers {
		setCell(i+1, 1, h)
	}
	for i, rec := range records {
		row := i + 2
		setCell(1, row, rec.SourceID)
		setCell(2, row, rec.InvoiceNumber)
		setCell(3, row, rec.Date)
		setCell(4, row, rec.FuelType)
		setCell(5, row, rec.Quantity)
		setCell(6, row, rec.Address)
		setCell(7, row, rec.Remarks)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28) // page id
	_ = f.SetColWidth(sheetName, "B", "B", 16) // invoice number
	_ = f.SetColWidth(sheetName, "C", "C", 12) // date
	_ = f.SetColWidth(sheetName, "D", "E", 12) // fuel type, quantity
	_ = f.SetColWidth(sheetName, "F", "F", 48) // address
	_ = f.SetColWidth(sheetName, "G", "G", 40) // remarks

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	// Unix timestamp plus a short suffix so concurrent batches never collide.
	path := filepath.Join(w.dir, fmt.Sprintf("ocr_report_%d_%s.xlsx", time.Now().Unix(), uuid.NewString()[:8]))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("report.xlsx.ok",
		"path", path,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return path, nil
}
