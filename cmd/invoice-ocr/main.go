package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mfish-station/invoice-ocr/internal/config"
	"github.com/mfish-station/invoice-ocr/internal/engine"
	"github.com/mfish-station/invoice-ocr/internal/pipeline"
	"github.com/mfish-station/invoice-ocr/internal/report"
	"github.com/mfish-station/invoice-ocr/internal/segment"
)

func main() {
	var (
		pdfPath = flag.String("pdf", "", "invoice PDF to process (required)")
		out     = flag.String("out", "", "reports directory (overrides REPORTS_DIR)")
		dpi     = flag.Int("dpi", 0, "rasterization DPI (overrides OCR_DPI)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *pdfPath == "" {
		logger.Error("usage", "cmd", "invoice-ocr -pdf <file.pdf> [-out dir] [-dpi n]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("load .env", "error", err)
	}
	cfg := config.Load()
	if *out != "" {
		cfg.OCR.ReportsDir = *out
	}
	if *dpi > 0 {
		cfg.OCR.DPI = *dpi
	}

	registry := engine.NewRegistry(engine.RegistryConfig{TessdataDir: cfg.OCR.TessdataDir}, logger)
	orch := pipeline.NewOrchestrator(
		pipeline.OrchestratorConfig{
			MaxWorkers:    cfg.OCR.MaxWorkers,
			RegionTimeout: cfg.OCR.RegionTimeout,
		},
		segment.NewSegmenter(segment.Config{
			DPI:            cfg.OCR.DPI,
			MinContourArea: cfg.OCR.MinContourArea,
			WorkDir:        cfg.OCR.WorkDir,
		}, logger),
		pipeline.NewProcessor(registry, logger),
		report.NewWriter(cfg.OCR.ReportsDir, logger),
		logger,
	)

	start := time.Now()
	reportPath, records, err := orch.Process(context.Background(), *pdfPath)
	if err != nil {
		logger.Error("processing failed", "pdf", *pdfPath, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	logger.Info("processing OK",
		"pdf", *pdfPath,
		"report", reportPath,
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		logger.Error("encode records", "error", err)
		os.Exit(1)
	}
}
