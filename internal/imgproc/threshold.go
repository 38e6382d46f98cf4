package imgproc

import (
	"image"
	"image/draw"
	"math"
)

// ToGray converts any image to 8-bit grayscale.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// gaussianKernel builds a normalized 1D Gaussian of the given odd size with
// the sigma convention used for block-local thresholding:
// sigma = 0.3*((size-1)*0.5 - 1) + 0.8.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	k := make([]float64, size)
	mid := (size - 1) / 2
	sum := 0.0
	for i := range k {
		d := float64(i - mid)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// AdaptiveThreshold binarizes src against a Gaussian-weighted local mean:
// a pixel becomes white (255) when src <= mean - c, black otherwise
// (inverse binary, so dark glyphs on light paper come out white).
// blockSize is the odd neighborhood width; edges replicate border pixels.
func AdaptiveThreshold(src *image.Gray, blockSize int, c float64) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	kernel := gaussianKernel(blockSize)
	mid := (blockSize - 1) / 2

	// Horizontal pass.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range kernel {
				sx := clampInt(x+i-mid, 0, w-1)
				acc += kv * float64(src.Pix[row+sx])
			}
			tmp[y*w+x] = acc
		}
	}

	// Vertical pass plus threshold.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var mean float64
			for i, kv := range kernel {
				sy := clampInt(y+i-mid, 0, h-1)
				mean += kv * tmp[sy*w+x]
			}
			if float64(src.Pix[y*src.Stride+x]) <= mean-c {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
