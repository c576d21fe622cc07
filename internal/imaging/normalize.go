/**
 * Image Normalizer
 *
 * Prepares raster document images for OCR: grayscale conversion,
 * median denoising, adaptive contrast binarization and skew
 * correction. Every step is independently toggle-able and wrapped so
 * that a failing step degrades to pass-through instead of aborting
 * the pipeline; a partially preprocessed image is still better than
 * no OCR attempt.
 */

package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// Options toggles the preprocessing steps. Step order is fixed:
// grayscale, denoise, contrast, deskew.
type Options struct {
	Denoise         bool
	EnhanceContrast bool
	Deskew          bool
}

// DefaultOptions mirrors the engine defaults: denoise and contrast
// enhancement on, deskew off.
func DefaultOptions() Options {
	return Options{
		Denoise:         true,
		EnhanceContrast: true,
		Deskew:          false,
	}
}

// Warning records a preprocessing step that degraded to pass-through.
type Warning struct {
	Step    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("preprocess step %s degraded: %s", w.Step, w.Message)
}

// Normalize runs the preprocessing pipeline and reports any steps
// that were skipped due to internal failures. It never fails the
// overall call.
func Normalize(img image.Image, opts Options) (*image.Gray, []Warning) {
	var warnings []Warning

	gray := Grayscale(img)

	if opts.Denoise {
		gray = runStep("denoise", gray, &warnings, func(g *image.Gray) *image.Gray {
			return MedianFilter(g, 1)
		})
	}

	if opts.EnhanceContrast {
		gray = runStep("enhance_contrast", gray, &warnings, func(g *image.Gray) *image.Gray {
			return AdaptiveThreshold(g, 11, 2)
		})
	}

	if opts.Deskew {
		gray = runStep("deskew", gray, &warnings, Deskew)
	}

	return gray, warnings
}

// runStep executes one preprocessing step, converting a panic into a
// warning and keeping the input image.
func runStep(name string, in *image.Gray, warnings *[]Warning, fn func(*image.Gray) *image.Gray) (out *image.Gray) {
	out = in
	defer func() {
		if r := recover(); r != nil {
			*warnings = append(*warnings, Warning{Step: name, Message: fmt.Sprint(r)})
			out = in
		}
	}()
	return fn(in)
}

// Grayscale converts any image to a single-channel grayscale image.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}
	return gray
}

// MedianFilter applies a median filter with the given radius
// (radius 1 = 3x3 window), removing speckle while preserving edges.
// Edges are handled by coordinate clamping.
func MedianFilter(src *image.Gray, radius int) *image.Gray {
	if radius < 1 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	window := make([]uint8, 0, (2*radius+1)*(2*radius+1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					sx := clamp(x+dx, 0, w-1)
					sy := clamp(y+dy, 0, h-1)
					window = append(window, src.GrayAt(sx, sy).Y)
				}
			}
			dst.SetGray(x, y, color.Gray{Y: median(window)})
		}
	}
	return dst
}

// AdaptiveThreshold binarizes against the local mean over a
// window×window neighborhood minus a constant offset, which tolerates
// uneven illumination. Pixels brighter than the local threshold map
// to white (paper), the rest to black (ink).
func AdaptiveThreshold(src *image.Gray, window, offset int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	integral := integralImage(src)
	radius := window / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0 := clamp(x-radius, 0, w-1)
			x1 := clamp(x+radius, 0, w-1)
			y0 := clamp(y-radius, 0, h-1)
			y1 := clamp(y+radius, 0, h-1)

			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			sum := integral[(y1+1)*(w+1)+(x1+1)] -
				integral[(y0)*(w+1)+(x1+1)] -
				integral[(y1+1)*(w+1)+(x0)] +
				integral[(y0)*(w+1)+(x0)]
			mean := float64(sum) / float64(area)

			if float64(src.GrayAt(x, y).Y) > mean-float64(offset) {
				dst.SetGray(x, y, color.Gray{Y: 255})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return dst
}

// integralImage computes a summed-area table with one extra row and
// column of zeros, indexed as integral[(y+1)*(w+1)+(x+1)].
func integralImage(src *image.Gray) []uint64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	integral := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(src.GrayAt(x, y).Y)
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}
	return integral
}

func median(window []uint8) uint8 {
	// Counting sort; the window holds at most a few dozen bytes.
	var counts [256]int
	for _, v := range window {
		counts[v]++
	}
	mid := len(window) / 2
	seen := 0
	for v := 0; v < 256; v++ {
		seen += counts[v]
		if seen > mid {
			return uint8(v)
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
