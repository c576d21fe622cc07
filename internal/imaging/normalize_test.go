/**
 * Preprocessing pipeline tests
 */

package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic white page with black ink rectangles
func drawPage(w, h int, boxes ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for _, b := range boxes {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func TestGrayscaleConvertsColor(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	rgba.Set(1, 1, color.RGBA{R: 255, A: 255})
	rgba.Set(2, 2, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	gray := Grayscale(rgba)
	require.Equal(t, image.Rect(0, 0, 4, 4), gray.Bounds())
	assert.Equal(t, uint8(255), gray.GrayAt(2, 2).Y)
	assert.Less(t, gray.GrayAt(1, 1).Y, uint8(255))
}

func TestGrayscalePassthrough(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	assert.Same(t, g, Grayscale(g))
}

func TestMedianFilterRemovesSpeckle(t *testing.T) {
	img := drawPage(9, 9)
	// single black speckle on white
	img.SetGray(4, 4, color.Gray{Y: 0})

	out := MedianFilter(img, 1)
	assert.Equal(t, uint8(255), out.GrayAt(4, 4).Y)
}

func TestMedianFilterPreservesEdges(t *testing.T) {
	// solid black left half, white right half
	img := drawPage(10, 10, image.Rect(0, 0, 5, 10))

	out := MedianFilter(img, 1)
	assert.Equal(t, uint8(0), out.GrayAt(2, 5).Y)
	assert.Equal(t, uint8(255), out.GrayAt(7, 5).Y)
}

func TestAdaptiveThresholdBinarizes(t *testing.T) {
	img := drawPage(40, 40, image.Rect(10, 10, 20, 20))

	out := AdaptiveThreshold(img, 11, 2)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			v := out.GrayAt(x, y).Y
			assert.True(t, v == 0 || v == 255, "pixel (%d,%d) not binary: %d", x, y, v)
		}
	}
	// interior of the box stays ink, far background stays paper
	assert.Equal(t, uint8(255), out.GrayAt(35, 35).Y)
}

func TestNormalizeNeverFails(t *testing.T) {
	img := drawPage(30, 30, image.Rect(5, 5, 25, 10))

	out, warnings := Normalize(img, Options{Denoise: true, EnhanceContrast: true, Deskew: true})
	require.NotNil(t, out)
	assert.Empty(t, warnings)
	assert.Equal(t, 30, out.Bounds().Dx())
}

func TestNormalizeEmptyImage(t *testing.T) {
	out, warnings := Normalize(image.NewGray(image.Rect(0, 0, 0, 0)), DefaultOptions())
	require.NotNil(t, out)
	assert.Empty(t, warnings)
}

func TestEstimateSkewAxisAligned(t *testing.T) {
	img := drawPage(100, 60, image.Rect(10, 25, 90, 35))

	angle, ok := EstimateSkew(img)
	require.True(t, ok)
	assert.InDelta(t, 0, angle, 1.0)
}

func TestEstimateSkewSlantedBar(t *testing.T) {
	// thin bar rotated ~5 degrees
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	slope := 0.0875 // tan(5 degrees)
	for x := 20; x < 180; x++ {
		cy := 100 + int(float64(x-100)*slope)
		for dy := -4; dy <= 4; dy++ {
			img.SetGray(x, cy+dy, color.Gray{Y: 0})
		}
	}

	angle, ok := EstimateSkew(img)
	require.True(t, ok)
	assert.InDelta(t, 5, angle, 1.5)
}

func TestEstimateSkewBlankImage(t *testing.T) {
	_, ok := EstimateSkew(drawPage(50, 50))
	assert.False(t, ok)
}

func TestRotatePreservesDimensions(t *testing.T) {
	img := drawPage(40, 30, image.Rect(5, 5, 35, 25))
	out := Rotate(img, 10)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 30, out.Bounds().Dy())
}

func TestDeskewSkipsNearZero(t *testing.T) {
	img := drawPage(100, 60, image.Rect(10, 25, 90, 35))
	assert.Same(t, img, Deskew(img))
}
