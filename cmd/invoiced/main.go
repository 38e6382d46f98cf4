package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mfish-station/invoice-ocr/internal/config"
	"github.com/mfish-station/invoice-ocr/internal/engine"
	"github.com/mfish-station/invoice-ocr/internal/pipeline"
	"github.com/mfish-station/invoice-ocr/internal/report"
	"github.com/mfish-station/invoice-ocr/internal/segment"
	"github.com/mfish-station/invoice-ocr/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("load .env", "error", err)
	}
	cfg := config.Load()

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

	srv := server.New(server.Config{
		UploadDir:      cfg.Server.UploadDir,
		ReportsDir:     cfg.OCR.ReportsDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, orch, logger)

	logger.Info("invoiced listening", "addr", cfg.Server.HTTPAddr)
	if err := srv.Router().Run(cfg.Server.HTTPAddr); err != nil {
		logger.Error("http server", "error", err)
		os.Exit(1)
	}
}
