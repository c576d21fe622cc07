/**
 * Skew correction
 *
 * Estimates the dominant text rotation from the minimum-area bounding
 * rectangle of all foreground pixels (convex hull + rotating
 * calipers), normalizes the angle into (-45, 45] degrees and rotates
 * the image back with bicubic interpolation and edge replication.
 */

package imaging

import (
	"image"
	"image/color"
	"math"
	"sort"
)

type point struct {
	X, Y float64
}

// Deskew corrects the dominant rotation of a grayscale document
// image. When no foreground pixels exist, or the skew estimate
// degenerates, the input is returned unchanged.
func Deskew(src *image.Gray) *image.Gray {
	angle, ok := EstimateSkew(src)
	if !ok || math.Abs(angle) < 0.05 {
		return src
	}
	return Rotate(src, -angle)
}

// EstimateSkew returns the skew angle of the foreground in degrees,
// normalized into (-45, 45]. The second return value is false when no
// skew could be estimated (blank image or collinear foreground).
func EstimateSkew(src *image.Gray) (float64, bool) {
	pts := foregroundPoints(src)
	if len(pts) < 3 {
		return 0, false
	}

	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0, false
	}

	angle, ok := minAreaRectAngle(hull)
	if !ok {
		return 0, false
	}

	// Normalize into (-45, 45].
	for angle <= -45 {
		angle += 90
	}
	for angle > 45 {
		angle -= 90
	}
	return angle, true
}

// foregroundPoints collects the coordinates of ink pixels. The
// minority intensity class is treated as ink so the estimate works on
// both raw grayscale and binarized input.
func foregroundPoints(src *image.Gray) []point {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	var sum uint64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum += uint64(src.GrayAt(x, y).Y)
		}
	}
	mean := float64(sum) / float64(w*h)
	darkIsInk := mean >= 128

	pts := make([]point, 0, 1024)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := src.GrayAt(x, y).Y
			if (darkIsInk && v < 128) || (!darkIsInk && v >= 128) {
				pts = append(pts, point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return pts
}

// convexHull computes the convex hull with the monotone chain
// algorithm, returning points in counter-clockwise order.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return pts
	}

	sorted := make([]point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]point, 0, 2*len(sorted))
	// Lower hull
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper hull
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func cross(o, a, b point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// minAreaRectAngle runs rotating calipers over the hull edges and
// returns the orientation (degrees) of the minimum-area enclosing
// rectangle's long axis relative to the x axis.
func minAreaRectAngle(hull []point) (float64, bool) {
	n := len(hull)
	if n < 3 {
		return 0, false
	}

	bestArea := math.Inf(1)
	bestAngle := 0.0

	for i := 0; i < n; i++ {
		p0 := hull[i]
		p1 := hull[(i+1)%n]
		edgeX := p1.X - p0.X
		edgeY := p1.Y - p0.Y
		length := math.Hypot(edgeX, edgeY)
		if length == 0 {
			continue
		}
		ux, uy := edgeX/length, edgeY/length

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := (p.X-p0.X)*ux + (p.Y-p0.Y)*uy
			v := -(p.X-p0.X)*uy + (p.Y-p0.Y)*ux
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		du, dv := maxU-minU, maxV-minV
		area := du * dv
		if area < bestArea {
			bestArea = area
			angle := math.Atan2(uy, ux) * 180 / math.Pi
			if dv > du {
				// Long axis is perpendicular to this edge.
				angle += 90
			}
			bestAngle = angle
		}
	}

	if math.IsInf(bestArea, 1) {
		return 0, false
	}
	return bestAngle, true
}

// Rotate rotates the image around its center by the given angle in
// degrees (counter-clockwise positive in image coordinates), sampling
// with Catmull-Rom bicubic interpolation and replicating edge pixels
// for coordinates that map outside the source.
func Rotate(src *image.Gray, degrees float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	theta := degrees * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Inverse mapping: destination pixel back into source space.
			dx := float64(x) - cx
			dy := float64(y) - cy
			sx := cos*dx + sin*dy + cx
			sy := -sin*dx + cos*dy + cy
			dst.SetGray(x, y, color.Gray{Y: bicubicSample(src, sx, sy)})
		}
	}
	return dst
}

// bicubicSample evaluates a Catmull-Rom kernel at (x, y), clamping
// tap coordinates to the image bounds (border replication).
func bicubicSample(src *image.Gray, x, y float64) uint8 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	var acc, wsum float64
	for j := -1; j <= 2; j++ {
		wy := catmullRom(float64(j) - fy)
		if wy == 0 {
			continue
		}
		sy := clamp(y0+j, 0, h-1)
		for i := -1; i <= 2; i++ {
			wx := catmullRom(float64(i) - fx)
			if wx == 0 {
				continue
			}
			sx := clamp(x0+i, 0, w-1)
			acc += wx * wy * float64(src.GrayAt(sx, sy).Y)
			wsum += wx * wy
		}
	}

	if wsum == 0 {
		return src.GrayAt(clamp(x0, 0, w-1), clamp(y0, 0, h-1)).Y
	}
	v := acc / wsum
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

func catmullRom(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return 1.5*t*t*t - 2.5*t*t + 1
	case t < 2:
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	default:
		return 0
	}
}
