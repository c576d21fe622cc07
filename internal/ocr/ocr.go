/**
 * OCR backend abstraction
 *
 * Defines the recognition document model shared by all backends, the
 * backend interface and the registry that routes engine selection.
 * All backends report confidence on the canonical 0-100 scale; the
 * adapters convert whatever native scale the engine uses at
 * construction of each text block.
 */

package ocr

import (
	"context"
	"image"
	"sort"
	"strings"

	"github.com/docforge/extract/internal/errors"
)

// Granularity of a recognized text block.
const (
	LevelWord  = "word"
	LevelLine  = "line"
	LevelBlock = "block"
)

// BBox is an axis-aligned region in pixel coordinates.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TextBlock is one recognized unit of text with its location and
// confidence on the 0-100 scale.
type TextBlock struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
	Level      string  `json:"level"`
}

// Document is the aggregated recognition output for one image.
type Document struct {
	Text       string      `json:"text"`
	Blocks     []TextBlock `json:"blocks"`
	Confidence float64     `json:"confidence"`
	Engine     string      `json:"engine"`
	Errors     []string    `json:"errors,omitempty"`
}

// Backend recognizes text in a prepared image. Threshold is on the
// 0-100 scale; blocks below it are dropped before aggregation.
type Backend interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, lang string, threshold float64) (*Document, error)
}

// Registry holds the available OCR backends and resolves engine
// selection.
type Registry struct {
	backends map[string]Backend
	order    []string
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend under its own name. Later registrations
// replace earlier ones with the same name.
func (r *Registry) Register(b Backend) {
	name := b.Name()
	if _, exists := r.backends[name]; !exists {
		r.order = append(r.order, name)
	}
	r.backends[name] = b
}

// Names lists the registered backends in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Select resolves an engine name to a backend. "auto" prefers the
// deep-learning backend, then tesseract, then whatever is registered.
// An empty registry or an unknown name yields an engine-unavailable
// error.
func (r *Registry) Select(engine string) (Backend, error) {
	if len(r.backends) == 0 {
		return nil, errors.NewEngineUnavailable()
	}

	switch engine {
	case "", "auto":
		for _, preferred := range []string{"paddle", "tesseract"} {
			if b, ok := r.backends[preferred]; ok {
				return b, nil
			}
		}
		return r.backends[r.order[0]], nil
	default:
		if b, ok := r.backends[engine]; ok {
			return b, nil
		}
		return nil, errors.NewEngineUnavailable()
	}
}

// Run recognizes with the selected backend and absorbs failures into
// the document instead of failing the call. A document is always
// returned; backend or selection errors appear in Document.Errors
// with zero confidence and empty text.
func (r *Registry) Run(ctx context.Context, engine string, img image.Image, lang string, threshold float64) *Document {
	backend, err := r.Select(engine)
	if err != nil {
		return &Document{Errors: []string{err.Error()}}
	}

	doc, err := backend.Recognize(ctx, img, lang, threshold)
	if err != nil {
		return &Document{
			Engine: backend.Name(),
			Errors: []string{errors.NewBackendFailure(backend.Name(), err).Error()},
		}
	}
	doc.Engine = backend.Name()
	return doc
}

// finalize filters blocks below the confidence threshold, assembles
// the document text in reading order and computes the mean confidence
// of the retained blocks. An empty retained set yields confidence 0.
func finalize(blocks []TextBlock, threshold float64) *Document {
	kept := make([]TextBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Confidence >= threshold && strings.TrimSpace(b.Text) != "" {
			kept = append(kept, b)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].BBox.Y != kept[j].BBox.Y {
			return kept[i].BBox.Y < kept[j].BBox.Y
		}
		return kept[i].BBox.X < kept[j].BBox.X
	})

	var sum float64
	parts := make([]string, 0, len(kept))
	for _, b := range kept {
		sum += b.Confidence
		parts = append(parts, b.Text)
	}

	doc := &Document{
		Text:   strings.Join(parts, " "),
		Blocks: kept,
	}
	if len(kept) > 0 {
		doc.Confidence = sum / float64(len(kept))
	}
	return doc
}

// quadToBBox converts a polygon to its axis-aligned bounding box.
func quadToBBox(xs, ys []float64) BBox {
	if len(xs) == 0 || len(ys) == 0 {
		return BBox{}
	}
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < len(xs); i++ {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
	}
	for i := 1; i < len(ys); i++ {
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	return BBox{
		X:      int(minX),
		Y:      int(minY),
		Width:  int(maxX - minX),
		Height: int(maxY - minY),
	}
}
