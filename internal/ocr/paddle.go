/**
 * PaddleOCR backend
 *
 * Deep-learning OCR via the pogo pipeline (pure-Go PaddleOCR models).
 * The detector emits quadrilateral regions with recognition
 * confidence on the 0-1 scale; the adapter rescales to the canonical
 * 0-100 scale and reduces quads to axis-aligned boxes at line level.
 */

package ocr

import (
	"context"
	"image"

	"github.com/MeKo-Tech/pogo/pipeline"
)

// Paddle recognizes text with a pogo OCR pipeline. The pipeline owns
// loaded model weights and must be released with Close.
type Paddle struct {
	pipeline *pipeline.Pipeline
}

// NewPaddle builds the pogo pipeline with default models.
func NewPaddle() (*Paddle, error) {
	p, err := pipeline.NewBuilder().Build()
	if err != nil {
		return nil, err
	}
	return &Paddle{pipeline: p}, nil
}

// Name implements Backend.
func (p *Paddle) Name() string { return "paddle" }

// Close releases the model resources held by the pipeline.
func (p *Paddle) Close() error {
	return p.pipeline.Close()
}

// Recognize implements Backend. The pogo recognition models are
// language-agnostic for Latin scripts; lang is accepted for interface
// symmetry and ignored.
func (p *Paddle) Recognize(ctx context.Context, img image.Image, lang string, threshold float64) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.pipeline.ProcessImage(img)
	if err != nil {
		return nil, err
	}

	blocks := make([]TextBlock, 0, len(result.Regions))
	for _, region := range result.Regions {
		xs := make([]float64, 0, len(region.Polygon))
		ys := make([]float64, 0, len(region.Polygon))
		for _, pt := range region.Polygon {
			xs = append(xs, pt.X)
			ys = append(ys, pt.Y)
		}

		bbox := quadToBBox(xs, ys)
		if len(xs) == 0 {
			bbox = BBox{X: region.Box.X, Y: region.Box.Y, Width: region.Box.W, Height: region.Box.H}
		}

		blocks = append(blocks, TextBlock{
			Text:       region.Text,
			Confidence: region.RecConfidence * 100,
			BBox:       bbox,
			Level:      LevelLine,
		})
	}

	return finalize(blocks, threshold), nil
}
