package segment

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// syntheticPage builds a white page with black rectangles standing in for
// printed invoice blocks.
func syntheticPage(w, h int, blocks ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, b := range blocks {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

var _ = Describe("DetectRegions", func() {
	It("finds each printed block and orders boxes top-to-bottom", func() {
		first := image.Rect(100, 100, 320, 220)
		second := image.Rect(600, 500, 820, 620)
		page := syntheticPage(1000, 800, second, first)

		boxes := DetectRegions(page, 5000)
		Expect(boxes).To(HaveLen(2))

		// Each detected box covers its block plus the dilation margin.
		Expect(first.In(boxes[0])).To(BeTrue())
		Expect(boxes[0].In(first.Inset(-20))).To(BeTrue())
		Expect(second.In(boxes[1])).To(BeTrue())
		Expect(boxes[1].In(second.Inset(-20))).To(BeTrue())
	})

	It("drops blocks below the area threshold", func() {
		page := syntheticPage(1000, 800, image.Rect(100, 100, 320, 220))
		Expect(DetectRegions(page, 1<<30)).To(BeEmpty())
	})

	It("finds nothing on a blank page", func() {
		Expect(DetectRegions(syntheticPage(1000, 800), 5000)).To(BeEmpty())
	})
})

var _ = Describe("kernelSize", func() {
	It("scales with the longer side", func() {
		Expect(kernelSize(1000, 800)).To(Equal(30))
		Expect(kernelSize(800, 1000)).To(Equal(30))
		Expect(kernelSize(2480, 3508)).To(Equal(80))
	})

	It("clamps to the working range", func() {
		Expect(kernelSize(400, 300)).To(Equal(20))
		Expect(kernelSize(9000, 9000)).To(Equal(80))
	})
})

var _ = Describe("Workspace", func() {
	It("creates page and crop directories under a unique root", func() {
		parent := GinkgoT().TempDir()
		ws, err := newWorkspace(parent)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Dir(ws.Root)).To(Equal(parent))
		Expect(ws.PageDir).To(BeADirectory())
		Expect(ws.CropDir).To(BeADirectory())

		other, err := newWorkspace(parent)
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Root).NotTo(Equal(ws.Root))
	})

	It("removes everything under its root", func() {
		ws, err := newWorkspace(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(filepath.Join(ws.CropDir, "c.png"), []byte("x"), 0o644)).To(Succeed())

		ws.Remove(nil)
		Expect(ws.Root).NotTo(BeAnExistingFile())
	})

	It("tolerates nil and partially built workspaces", func() {
		var ws *Workspace
		ws.Remove(nil)
		(&Workspace{}).Remove(nil)
	})
})
