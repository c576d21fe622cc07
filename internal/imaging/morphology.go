/**
 * Binarization, morphology and projection primitives
 *
 * Shared by the layout analyzer: Otsu global thresholding with ink as
 * foreground, rectangular dilation/erosion, connected-component
 * labeling and 1-D projection profiles.
 */

package imaging

import (
	"image"
	"image/color"
)

// OtsuThreshold computes the global threshold that maximizes
// between-class variance of the intensity histogram.
func OtsuThreshold(src *image.Gray) uint8 {
	var hist [256]int
	b := src.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 128
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			hist[src.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for v := 0; v < 256; v++ {
		sum += float64(v) * float64(hist[v])
	}

	var sumB, wB float64
	best := 0
	bestVar := -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return uint8(best)
}

// BinarizeInk thresholds with Otsu and maps ink to white (255) and
// paper to black (0), so that projections and morphology operate on
// the glyphs rather than the background. The minority intensity class
// is taken to be ink.
func BinarizeInk(src *image.Gray) *image.Gray {
	t := OtsuThreshold(src)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	dark := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.GrayAt(x, y).Y <= t {
				dark++
			}
		}
	}
	darkIsInk := dark*2 <= w*h

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			isDark := src.GrayAt(x, y).Y <= t
			if isDark == darkIsInk {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst
}

// Dilate grows foreground (255) regions with a kernelW x kernelH
// rectangular structuring element.
func Dilate(src *image.Gray, kernelW, kernelH int) *image.Gray {
	return morph(src, kernelW, kernelH, true)
}

// Erode shrinks foreground (255) regions with a kernelW x kernelH
// rectangular structuring element.
func Erode(src *image.Gray, kernelW, kernelH int) *image.Gray {
	return morph(src, kernelW, kernelH, false)
}

// Open erodes then dilates, removing foreground features smaller than
// the structuring element while preserving larger ones. A wide flat
// element keeps only horizontal ruling lines; a tall thin one keeps
// only vertical lines.
func Open(src *image.Gray, kernelW, kernelH int) *image.Gray {
	return Dilate(Erode(src, kernelW, kernelH), kernelW, kernelH)
}

// morph applies a separable rectangular max (dilate) or min (erode)
// filter in two passes.
func morph(src *image.Gray, kernelW, kernelH int, dilate bool) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	rx, ry := kernelW/2, kernelH/2

	tmp := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := extremum(src, x-rx, x+rx, y, y, w, h, dilate)
			tmp.SetGray(x, y, color.Gray{Y: v})
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := extremum(tmp, x, x, y-ry, y+ry, w, h, dilate)
			dst.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return dst
}

func extremum(img *image.Gray, x0, x1, y0, y1, w, h int, max bool) uint8 {
	var best uint8
	if !max {
		best = 255
	}
	for y := clamp(y0, 0, h-1); y <= clamp(y1, 0, h-1); y++ {
		for x := clamp(x0, 0, w-1); x <= clamp(x1, 0, w-1); x++ {
			v := img.GrayAt(x, y).Y
			if max && v > best {
				best = v
			} else if !max && v < best {
				best = v
			}
		}
	}
	return best
}

// Or combines two binary images, keeping foreground present in either.
func Or(a, b *image.Gray) *image.Gray {
	ab, bb := a.Bounds(), b.Bounds()
	w, h := ab.Dx(), ab.Dy()
	if bb.Dx() < w {
		w = bb.Dx()
	}
	if bb.Dy() < h {
		h = bb.Dy()
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if a.GrayAt(x, y).Y > 0 || b.GrayAt(x, y).Y > 0 {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst
}

// Component is a connected foreground region with its bounding box.
type Component struct {
	Rect   image.Rectangle
	Pixels int
}

// ConnectedComponents labels 4-connected foreground (non-zero)
// regions and returns their bounding boxes.
func ConnectedComponents(src *image.Gray) []Component {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	var comps []Component

	var queue []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || src.GrayAt(x, y).Y == 0 {
				continue
			}

			comp := Component{Rect: image.Rect(x, y, x+1, y+1)}
			queue = queue[:0]
			queue = append(queue, idx)
			visited[idx] = true

			for len(queue) > 0 {
				cur := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				cx, cy := cur%w, cur/w

				comp.Pixels++
				if cx < comp.Rect.Min.X {
					comp.Rect.Min.X = cx
				}
				if cy < comp.Rect.Min.Y {
					comp.Rect.Min.Y = cy
				}
				if cx+1 > comp.Rect.Max.X {
					comp.Rect.Max.X = cx + 1
				}
				if cy+1 > comp.Rect.Max.Y {
					comp.Rect.Max.Y = cy + 1
				}

				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if !visited[nidx] && src.GrayAt(nx, ny).Y > 0 {
						visited[nidx] = true
						queue = append(queue, nidx)
					}
				}
			}

			comps = append(comps, comp)
		}
	}
	return comps
}

// VerticalProjection sums pixel intensity along each column, forming
// the 1-D profile used for column-gap analysis.
func VerticalProjection(src *image.Gray) []float64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	proj := make([]float64, w)
	for x := 0; x < w; x++ {
		var sum float64
		for y := 0; y < h; y++ {
			sum += float64(src.GrayAt(x, y).Y)
		}
		proj[x] = sum
	}
	return proj
}
