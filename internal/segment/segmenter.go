package segment

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"

	"github.com/mfish-station/invoice-ocr/internal/imgproc"
)

// Config holds segmentation parameters.
type Config struct {
	DPI            int    // rasterization density, default 300
	MinContourArea int    // smallest block kept as an invoice region, default 5000
	WorkDir        string // parent of the per-batch scratch directory, default os.TempDir()
}

// Region is one cropped sub-image believed to contain exactly one invoice.
type Region struct {
	Index    int             // position in document reading order
	Page     int             // 1-based owning page
	SourceID string          // crop file name, used as the report's page id
	Path     string          // crop file on disk, valid until the workspace is removed
	Box      image.Rectangle // bounding box on the rasterized page
}

// SegmentationError means the PDF itself could not be read or rasterized.
// It is the only failure that aborts a batch.
type SegmentationError struct {
	Path string
	Err  error
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmenting %s: %v", e.Path, e.Err)
}

func (e *SegmentationError) Unwrap() error { return e.Err }

// Segmenter rasterizes PDF pages and crops candidate invoice regions.
type Segmenter struct {
	cfg    Config
	logger *slog.Logger
}

func NewSegmenter(cfg Config, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinContourArea <= 0 {
		cfg.MinContourArea = 5000
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	return &Segmenter{cfg: cfg, logger: logger}
}

// Segment rasterizes every page of the PDF, detects invoice blocks, and
// persists one crop file per block. Regions come back in reading order:
// page-major, then top-to-bottom, left-to-right within a page.
// The returned workspace owns the page and crop files; the caller removes it
// once the batch completes. A non-nil workspace is returned even on error.
func (s *Segmenter) Segment(ctx context.Context, pdfPath string) ([]Region, *Workspace, error) {
	ws, err := newWorkspace(s.cfg.WorkDir)
	if err != nil {
		return nil, ws, fmt.Errorf("create workspace: %w", err)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, ws, &SegmentationError{Path: pdfPath, Err: err}
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			s.logger.Warn("close pdf", "path", pdfPath, "error", cerr)
		}
	}()

	var regions []Region
	for pageIdx := 0; pageIdx < doc.NumPage(); pageIdx++ {
		if err := ctx.Err(); err != nil {
			return nil, ws, err
		}

		img, err := doc.ImageDPI(pageIdx, float64(s.cfg.DPI))
		if err != nil {
			return nil, ws, &SegmentationError{Path: pdfPath, Err: fmt.Errorf("render page %d: %w", pageIdx+1, err)}
		}

		pageName := fmt.Sprintf("page_%d.png", pageIdx+1)
		pagePath := filepath.Join(ws.PageDir, pageName)
		if err := imaging.Save(img, pagePath); err != nil {
			return nil, ws, fmt.Errorf("save page raster: %w", err)
		}

		boxes := DetectRegions(img, s.cfg.MinContourArea)
		s.logger.Debug("page segmented", "page", pageIdx+1, "regions", len(boxes))

		for j, box := range boxes {
			crop := imaging.Crop(img, box)
			cropName := fmt.Sprintf("%s_block%d.png", pageName, j)
			cropPath := filepath.Join(ws.CropDir, cropName)
			if err := imaging.Save(crop, cropPath); err != nil {
				return nil, ws, fmt.Errorf("save region crop: %w", err)
			}
			regions = append(regions, Region{
				Index:    len(regions),
				Page:     pageIdx + 1,
				SourceID: cropName,
				Path:     cropPath,
				Box:      box,
			})
		}
	}

	s.logger.Info("segmentation done", "pdf", pdfPath, "pages", doc.NumPage(), "regions", len(regions))
	return regions, ws, nil
}

// DetectRegions finds candidate invoice blocks on one rasterized page and
// returns their bounding boxes sorted by (y, x).
func DetectRegions(pageImg image.Image, minArea int) []image.Rectangle {
	gray := imgproc.ToGray(pageImg)
	bin := imgproc.AdaptiveThreshold(gray, 25, 15)
	k := kernelSize(gray.Bounds().Dx(), gray.Bounds().Dy())
	dilated := imgproc.DilateRect(bin, k)

	var boxes []image.Rectangle
	for _, c := range imgproc.ExternalContours(dilated) {
		if c.Area > minArea {
			boxes = append(boxes, c.Bounds)
		}
	}
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].Min.Y != boxes[j].Min.Y {
			return boxes[i].Min.Y < boxes[j].Min.Y
		}
		return boxes[i].Min.X < boxes[j].Min.X
	})
	return boxes
}

// kernelSize scales the dilation kernel with page size so nearby glyphs merge
// into blocks: 30px per 1000px of the longer side, clamped to [20, 80].
func kernelSize(w, h int) int {
	longer := w
	if h > w {
		longer = h
	}
	k := int(math.Round(30 * float64(longer) / 1000))
	if k < 20 {
		k = 20
	}
	if k > 80 {
		k = 80
	}
	return k
}

// Workspace is the batch-scoped scratch area for page rasters and crops.
type Workspace struct {
	Root    string
	PageDir string
	CropDir string
}

func newWorkspace(parent string) (*Workspace, error) {
	root := filepath.Join(parent, "invoice-ocr-"+uuid.NewString())
	ws := &Workspace{
		Root:    root,
		PageDir: filepath.Join(root, "pages"),
		CropDir: filepath.Join(root, "crops"),
	}
	for _, dir := range []string{ws.PageDir, ws.CropDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ws, err
		}
	}
	return ws, nil
}

// Remove purges the workspace. Safe to call on a partially created one.
func (w *Workspace) Remove(logger *slog.Logger) {
	if w == nil || w.Root == "" {
		return
	}
	if err := os.RemoveAll(w.Root); err != nil && logger != nil {
		logger.Warn("remove workspace", "root", w.Root, "error", err)
	}
}
