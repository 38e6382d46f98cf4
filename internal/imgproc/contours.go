package imgproc

import "image"

// Contour is one external connected white region of a binary image.
type Contour struct {
	// Area is the region's pixel count.
	Area int
	// Bounds is the region's bounding box.
	Bounds image.Rectangle
}

// ExternalContours finds the outermost connected white regions of a binary
// image using 8-connectivity and returns their areas and bounding boxes.
// Holes inside a region are not reported.
func ExternalContours(bin *image.Gray) []Contour {
	w, h := bin.Bounds().Dx(), bin.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil
	}

	visited := make([]bool, w*h)
	var contours []Contour
	stack := make([]int, 0, 1024)

	for y := 0; y < h; y++ {
		row := y * bin.Stride
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || bin.Pix[row+x] == 0 {
				continue
			}

			// Flood-fill one component.
			area := 0
			minX, minY, maxX, maxY := x, y, x, y
			visited[idx] = true
			stack = append(stack[:0], idx)
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := cur%w, cur/w
				area++
				if cx < minX {
					minX = cx
				}
				if cx > maxX {
					maxX = cx
				}
				if cy < minY {
					minY = cy
				}
				if cy > maxY {
					maxY = cy
				}
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := cx+dx, cy+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						nidx := ny*w + nx
						if !visited[nidx] && bin.Pix[ny*bin.Stride+nx] != 0 {
							visited[nidx] = true
							stack = append(stack, nidx)
						}
					}
				}
			}

			contours = append(contours, Contour{
				Area:   area,
				Bounds: image.Rect(minX, minY, maxX+1, maxY+1),
			})
		}
	}
	return contours
}
