package engine

import (
	"log/slog"

	"github.com/otiai10/gosseract/v2"
)

// RegistryConfig tunes the shared recognizer set.
type RegistryConfig struct {
	TessdataDir string
}

// Registry holds the three process-wide recognizers. Each is a lazy
// singleton: nothing is loaded until a pipeline first needs it, and one
// engine failing to come up never blocks the others.
type Registry struct {
	Primary   Engine // dense mixed-script recognizer
	Secondary Engine // broader bilingual recognizer
	Tertiary  Engine // heavier fallback with per-line confidence/position
}

func NewRegistry(cfg RegistryConfig, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		Primary: NewTesseractEngine(TesseractConfig{
			Name:        "primary",
			Languages:   []string{"chi_tra"},
			PageSegMode: gosseract.PSM_SINGLE_BLOCK,
			TessdataDir: cfg.TessdataDir,
		}, logger),
		Secondary: NewTesseractEngine(TesseractConfig{
			Name:        "secondary",
			Languages:   []string{"chi_tra", "eng"},
			PageSegMode: gosseract.PSM_SINGLE_BLOCK,
			TessdataDir: cfg.TessdataDir,
		}, logger),
		Tertiary: NewTesseractEngine(TesseractConfig{
			Name:         "tertiary",
			Languages:    []string{"chi_tra", "chi_sim", "eng"},
			PageSegMode:  gosseract.PSM_AUTO,
			TessdataDir:  cfg.TessdataDir,
			LineGeometry: true,
		}, logger),
	}
}
