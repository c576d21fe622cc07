/**
 * Layout Analyzer
 *
 * Pure-image structural analysis: page orientation, column count from
 * vertical projection gaps, text region detection via glyph dilation
 * and connected components, and ruling-line table hints via
 * morphological opening. Operates on the grayscale image only; no OCR
 * output is consulted, so the analysis is identical across engines.
 */

package layout

import (
	"image"

	"github.com/docforge/extract/internal/imaging"
)

const (
	// Gaps narrower than this fraction of the page width do not count
	// as column separators.
	minGapFraction = 0.05

	// Connected components smaller than this are noise, not text
	// regions.
	minRegionArea = 1000

	// Ruling-line grids smaller than this are ignored as table hints.
	minTableSide = 100

	// Structuring element for merging glyphs into text regions.
	textKernelW = 30
	textKernelH = 3

	// Structuring element length for extracting ruling lines.
	lineKernelLen = 40
)

// Region is a detected text area in pixel coordinates.
type Region struct {
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Area   int    `json:"area"`
}

// TableRegion is a ruling-line grid candidate. Confidence is on the
// 0-100 scale.
type TableRegion struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// Layout is the structural description of one page image.
type Layout struct {
	Orientation  string        `json:"orientation"`
	Columns      int           `json:"columns"`
	Regions      []Region      `json:"regions,omitempty"`
	TableRegions []TableRegion `json:"table_regions,omitempty"`
}

// defaultLayout is the degraded result when analysis cannot run.
func defaultLayout() *Layout {
	return &Layout{Orientation: "portrait", Columns: 1}
}

// Detect analyzes a grayscale page image. It never fails; degenerate
// input yields the single-column portrait default. Detect is pure,
// repeated calls on the same image return the same layout.
func Detect(src *image.Gray) *Layout {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return defaultLayout()
	}

	l := &Layout{Orientation: "portrait", Columns: 1}
	if w > h {
		l.Orientation = "landscape"
	}

	bin := imaging.BinarizeInk(src)

	l.Columns = countColumns(bin)
	l.Regions = textRegions(bin)
	l.TableRegions = DetectTableRegions(bin)
	return l
}

// countColumns scans the vertical projection for low-ink runs wider
// than 5% of the page. A run that reaches the right edge is the page
// margin, not a separator.
func countColumns(bin *image.Gray) int {
	proj := imaging.VerticalProjection(bin)
	w := len(proj)
	if w == 0 {
		return 1
	}

	var mean float64
	for _, v := range proj {
		mean += v
	}
	mean /= float64(w)
	threshold := mean / 2
	minGap := int(float64(w) * minGapFraction)

	gaps := 0
	runStart := -1
	for x := 0; x < w; x++ {
		if proj[x] < threshold {
			if runStart < 0 {
				runStart = x
			}
			continue
		}
		if runStart >= 0 && x-runStart > minGap {
			gaps++
		}
		runStart = -1
	}

	if gaps == 0 {
		return 1
	}
	return gaps + 1
}

// textRegions merges glyphs into region blobs with a wide flat
// dilation and keeps components above the noise floor.
func textRegions(bin *image.Gray) []Region {
	dilated := imaging.Dilate(bin, textKernelW, textKernelH)

	var regions []Region
	for _, c := range imaging.ConnectedComponents(dilated) {
		area := c.Rect.Dx() * c.Rect.Dy()
		if area <= minRegionArea {
			continue
		}
		regions = append(regions, Region{
			Type:   "text",
			X:      c.Rect.Min.X,
			Y:      c.Rect.Min.Y,
			Width:  c.Rect.Dx(),
			Height: c.Rect.Dy(),
			Area:   area,
		})
	}
	return regions
}

// DetectTableRegions extracts horizontal and vertical ruling lines
// with directional opening and reports grid components above the
// minimum size as table candidates at fixed confidence 80. These are
// hints for downstream structure extraction, not parsed tables.
func DetectTableRegions(bin *image.Gray) []TableRegion {
	horizontal := imaging.Open(bin, lineKernelLen, 1)
	vertical := imaging.Open(bin, 1, lineKernelLen)
	grid := imaging.Or(horizontal, vertical)

	var tables []TableRegion
	for _, c := range imaging.ConnectedComponents(grid) {
		if c.Rect.Dx() <= minTableSide || c.Rect.Dy() <= minTableSide {
			continue
		}
		tables = append(tables, TableRegion{
			X:          c.Rect.Min.X,
			Y:          c.Rect.Min.Y,
			Width:      c.Rect.Dx(),
			Height:     c.Rect.Dy(),
			Confidence: 80,
		})
	}
	return tables
}
