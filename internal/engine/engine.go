package engine

import (
	"context"
	"image"
	"strings"
)

// Line is one recognized text line from a region image.
type Line struct {
	Text string
	// Confidence and Box are populated only by engines that expose line
	// geometry (the tertiary fallback); zero otherwise.
	Confidence float64
	Box        image.Rectangle
}

// Engine turns a region image into text lines. Implementations that failed
// to initialize return zero lines and a nil error for every call; an error
// return means this particular recognition attempt failed.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) ([]Line, error)
}

// Texts flattens lines to their strings, preserving emission order.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln.Text
	}
	return out
}

// splitLines breaks raw recognizer output on newlines, dropping blanks.
func splitLines(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(raw); s != "" {
			lines = append(lines, Line{Text: s})
		}
	}
	return lines
}
