/**
 * Tesseract backend
 *
 * Classical OCR engine via the gosseract bindings. Tesseract already
 * reports word confidences on the 0-100 scale, so no rescaling is
 * needed. Word-level bounding boxes come from the verbose iterator.
 */

package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with a locally installed Tesseract
// engine. A fresh client is created per call; gosseract clients are
// not safe for concurrent reuse.
type Tesseract struct{}

// NewTesseract creates the Tesseract backend.
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Name implements Backend.
func (t *Tesseract) Name() string { return "tesseract" }

// Recognize implements Backend.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, lang string, threshold float64) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			return nil, err
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, err
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, err
	}

	blocks := make([]TextBlock, 0, len(boxes))
	for _, b := range boxes {
		blocks = append(blocks, TextBlock{
			Text:       b.Word,
			Confidence: b.Confidence,
			BBox: BBox{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
			Level: LevelWord,
		})
	}

	return finalize(blocks, threshold), nil
}
