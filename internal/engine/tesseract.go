package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig selects the recognizer variant an engine embodies.
type TesseractConfig struct {
	Name        string
	Languages   []string
	PageSegMode gosseract.PageSegMode
	TessdataDir string
	// LineGeometry asks for per-line confidence and position instead of a
	// plain text dump. Costlier; used by the tertiary fallback engine.
	LineGeometry bool
}

// TesseractEngine wraps one gosseract client. Construction is deferred to
// the first Recognize call and happens exactly once per process; if it
// fails the engine logs once, stays unavailable, and contributes zero lines
// for every call thereafter. The underlying client is not safe for
// concurrent use, so recognition is serialized per engine.
type TesseractEngine struct {
	cfg    TesseractConfig
	logger *slog.Logger

	once    sync.Once
	mu      sync.Mutex
	client  *gosseract.Client
	initErr error
}

func NewTesseractEngine(cfg TesseractConfig, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractEngine{cfg: cfg, logger: logger}
}

func (e *TesseractEngine) Name() string { return e.cfg.Name }

func (e *TesseractEngine) init() {
	client := gosseract.NewClient()
	if e.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
			e.fail(client, fmt.Errorf("set tessdata prefix: %w", err))
			return
		}
	}
	if err := client.SetLanguage(e.cfg.Languages...); err != nil {
		e.fail(client, fmt.Errorf("set languages %v: %w", e.cfg.Languages, err))
		return
	}
	if e.cfg.PageSegMode != 0 {
		if err := client.SetPageSegMode(e.cfg.PageSegMode); err != nil {
			e.fail(client, fmt.Errorf("set page seg mode: %w", err))
			return
		}
	}
	e.client = client
	e.logger.Info("ocr engine ready", "engine", e.cfg.Name, "languages", e.cfg.Languages)
}

func (e *TesseractEngine) fail(client *gosseract.Client, err error) {
	_ = client.Close()
	e.initErr = err
	e.logger.Error("ocr engine unavailable", "engine", e.cfg.Name, "error", err)
}

// Recognize runs OCR over the image at path. An unavailable engine returns
// (nil, nil) so degraded batches keep flowing.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) ([]Line, error) {
	e.once.Do(e.init)
	if e.initErr != nil {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("%s: set image %s: %w", e.cfg.Name, imagePath, err)
	}

	if e.cfg.LineGeometry {
		boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
		if err != nil {
			return nil, fmt.Errorf("%s: line boxes: %w", e.cfg.Name, err)
		}
		var lines []Line
		for _, b := range boxes {
			if s := b.Word; s != "" {
				lines = append(lines, Line{Text: s, Confidence: b.Confidence, Box: b.Box})
			}
		}
		return lines, nil
	}

	text, err := e.client.Text()
	if err != nil {
		return nil, fmt.Errorf("%s: recognize: %w", e.cfg.Name, err)
	}
	return splitLines(text), nil
}

// Close releases the underlying client if it was ever constructed.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	e.initErr = fmt.Errorf("engine closed")
	return err
}
