// Package server is the thin HTTP glue over the extraction pipeline: upload
// validation, temporary storage of the input PDF, and response shaping. All
// invoice semantics live in the pipeline packages.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mfish-station/invoice-ocr/constants"
	"github.com/mfish-station/invoice-ocr/internal/fields"
	"github.com/mfish-station/invoice-ocr/internal/segment"
)

// DocumentProcessor is the pipeline surface this layer consumes.
type DocumentProcessor interface {
	Process(ctx context.Context, pdfPath string) (reportPath string, records []fields.Record, err error)
}

// Config holds upload handling limits and paths.
type Config struct {
	UploadDir      string
	ReportsDir     string
	MaxUploadBytes int64
}

type Server struct {
	cfg       Config
	processor DocumentProcessor
	logger    *slog.Logger
}

func New(cfg Config, processor DocumentProcessor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 16 << 20
	}
	return &Server{cfg: cfg, processor: processor, logger: logger}
}

// Router wires the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := r.Group("/api/ocr")
	api.POST("/upload", s.handleUpload)
	api.GET("/reports/:name", s.handleReportDownload)
	return r
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if !constants.IsPDFExt(filepath.Ext(file.Filename)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a PDF"})
		return
	}
	if file.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.logger.Error("create upload dir", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	// The input PDF lives only for the duration of the request.
	pdfPath := filepath.Join(s.cfg.UploadDir, uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(file, pdfPath); err != nil {
		s.logger.Error("save upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}
	defer func() {
		if rerr := os.Remove(pdfPath); rerr != nil {
			s.logger.Warn("remove upload", "path", pdfPath, "error", rerr)
		}
	}()

	reportPath, records, err := s.processor.Process(c.Request.Context(), pdfPath)
	if err != nil {
		var segErr *segment.SegmentationError
		if errors.As(err, &segErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "PDF could not be segmented"})
			return
		}
		s.logger.Error("process upload", "file", file.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"records": records,
		"report":  filepath.Base(reportPath),
	})
}

func (s *Server) handleReportDownload(c *gin.Context) {
	name := filepath.Base(c.Param("name")) // strip any path traversal
	path := filepath.Join(s.cfg.ReportsDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.FileAttachment(path, name)
}
