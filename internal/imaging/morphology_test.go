/**
 * Morphology and projection tests
 */

package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtsuThresholdBimodal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				img.SetGray(x, y, color.Gray{Y: 30})
			} else {
				img.SetGray(x, y, color.Gray{Y: 220})
			}
		}
	}

	th := OtsuThreshold(img)
	assert.GreaterOrEqual(t, th, uint8(30))
	assert.Less(t, th, uint8(220))
}

func TestBinarizeInkPolarity(t *testing.T) {
	// dark text on light page: ink is the minority class
	img := drawPage(30, 30, image.Rect(5, 5, 10, 10))

	bin := BinarizeInk(img)
	assert.Equal(t, uint8(255), bin.GrayAt(7, 7).Y, "ink maps to foreground")
	assert.Equal(t, uint8(0), bin.GrayAt(25, 25).Y, "paper maps to background")
}

func TestBinarizeInkInvertedDocument(t *testing.T) {
	// light text on dark page: still wants the minority class as ink
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	for y := 5; y < 10; y++ {
		for x := 5; x < 10; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	bin := BinarizeInk(img)
	assert.Equal(t, uint8(255), bin.GrayAt(7, 7).Y)
	assert.Equal(t, uint8(0), bin.GrayAt(25, 25).Y)
}

func TestDilateMergesNearbyGlyphs(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 60, 20))
	for _, r := range []image.Rectangle{image.Rect(5, 8, 15, 12), image.Rect(25, 8, 35, 12)} {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				bin.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	require.Len(t, ConnectedComponents(bin), 2)
	dilated := Dilate(bin, 30, 3)
	assert.Len(t, ConnectedComponents(dilated), 1)
}

func TestOpenKeepsOnlyLongLines(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 120, 60))
	// long horizontal ruling line
	for x := 10; x < 110; x++ {
		for y := 30; y < 33; y++ {
			bin.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	// small glyph-sized blob
	for x := 20; x < 28; x++ {
		for y := 10; y < 16; y++ {
			bin.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	opened := Open(bin, 40, 1)
	comps := ConnectedComponents(opened)
	require.Len(t, comps, 1)
	assert.GreaterOrEqual(t, comps[0].Rect.Dx(), 60)
}

func TestConnectedComponentsBounds(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := 10; y < 20; y++ {
		for x := 5; x < 25; x++ {
			bin.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	comps := ConnectedComponents(bin)
	require.Len(t, comps, 1)
	assert.Equal(t, image.Rect(5, 10, 25, 20), comps[0].Rect)
	assert.Equal(t, 200, comps[0].Pixels)
}

func TestConnectedComponentsEmpty(t *testing.T) {
	assert.Empty(t, ConnectedComponents(image.NewGray(image.Rect(0, 0, 10, 10))))
}

func TestVerticalProjectionColumnGap(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 100, 50))
	// two text columns with a gap between x=45 and x=55
	for _, span := range [][2]int{{5, 45}, {55, 95}} {
		for y := 5; y < 45; y++ {
			for x := span[0]; x < span[1]; x++ {
				bin.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	proj := VerticalProjection(bin)
	require.Len(t, proj, 100)
	assert.Zero(t, proj[50])
	assert.Greater(t, proj[20], 0.0)
	assert.Greater(t, proj[70], 0.0)
}

func TestOrCombines(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 10, 10))
	b := image.NewGray(image.Rect(0, 0, 10, 10))
	a.SetGray(1, 1, color.Gray{Y: 255})
	b.SetGray(8, 8, color.Gray{Y: 255})

	out := Or(a, b)
	assert.Equal(t, uint8(255), out.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(255), out.GrayAt(8, 8).Y)
	assert.Equal(t, uint8(0), out.GrayAt(5, 5).Y)
}

func TestEnhanceUpscalesSmallImages(t *testing.T) {
	img := drawPage(400, 200, image.Rect(50, 50, 350, 150))

	out := Enhance(img)
	assert.Equal(t, 1500, out.Bounds().Dx())
	assert.Equal(t, 750, out.Bounds().Dy())
}

func TestEnhanceKeepsLargeImages(t *testing.T) {
	img := drawPage(1200, 300)
	out := Enhance(img)
	assert.Equal(t, 1200, out.Bounds().Dx())
}
