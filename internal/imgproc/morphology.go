package imgproc

import "image"

// DilateRect grows white regions of a binary image by a k×k rectangular
// structuring element anchored at its center. Implemented as two 1D passes
// over white-pixel prefix sums, so cost is independent of kernel size.
func DilateRect(bin *image.Gray, k int) *image.Gray {
	w, h := bin.Bounds().Dx(), bin.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 || k <= 1 {
		copy(dst.Pix, bin.Pix)
		return dst
	}

	// For a kernel of width k anchored at k/2, the window around x
	// spans [x-left, x+right].
	left := k / 2
	right := k - 1 - left

	// Horizontal pass.
	tmp := image.NewGray(image.Rect(0, 0, w, h))
	prefix := make([]int, w+1)
	for y := 0; y < h; y++ {
		row := y * bin.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x]
			if bin.Pix[row+x] != 0 {
				prefix[x+1]++
			}
		}
		for x := 0; x < w; x++ {
			lo := clampInt(x-left, 0, w)
			hi := clampInt(x+right+1, 0, w)
			if prefix[hi]-prefix[lo] > 0 {
				tmp.Pix[y*tmp.Stride+x] = 255
			}
		}
	}

	// Vertical pass.
	colPrefix := make([]int, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			colPrefix[y+1] = colPrefix[y]
			if tmp.Pix[y*tmp.Stride+x] != 0 {
				colPrefix[y+1]++
			}
		}
		for y := 0; y < h; y++ {
			lo := clampInt(y-left, 0, h)
			hi := clampInt(y+right+1, 0, h)
			if colPrefix[hi]-colPrefix[lo] > 0 {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}
