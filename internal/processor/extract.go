/**
 * Extraction Orchestrator
 *
 * Routes a source file by extension to the OCR+layout path or the
 * structured-table path, aggregates every sub-component's errors into
 * the result and memoizes results in a bounded LRU cache keyed by a
 * fingerprint of the source path and normalized options. Results are
 * idempotent; a cache hit returns the prior result unchanged,
 * including its errors.
 */

package processor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/docforge/extract/internal/errors"
	"github.com/docforge/extract/internal/imaging"
	"github.com/docforge/extract/internal/layout"
	"github.com/docforge/extract/internal/ocr"
	"github.com/docforge/extract/internal/tables"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Options is the union of extraction options across all source paths.
type Options struct {
	// Preprocessing (image path)
	Preprocess        bool `json:"preprocess"`
	Denoise           bool `json:"denoise"`
	EnhanceContrast   bool `json:"enhance_contrast"`
	Deskew            bool `json:"deskew"`
	EnhanceResolution bool `json:"enhance_resolution"`

	// Recognition
	Engine              string  `json:"engine"`
	Language            string  `json:"language"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// Analysis
	DetectLayout  bool `json:"detect_layout"`
	ExtractText   bool `json:"extract_text"`
	ExtractTables bool `json:"extract_tables"`

	// Structured sources
	HeaderRow int    `json:"header_row"`
	SkipRows  int    `json:"skip_rows"`
	Encoding  string `json:"encoding"`

	// Output transforms, applied without mutating the content fields.
	// Recognized values: "text", "structured".
	Formats []string `json:"formats,omitempty"`
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Preprocess:          true,
		Denoise:             true,
		EnhanceContrast:     true,
		Deskew:              false,
		Engine:              "auto",
		Language:            "eng",
		ConfidenceThreshold: 30,
		DetectLayout:        false,
		ExtractText:         true,
		ExtractTables:       true,
		Encoding:            "utf-8",
	}
}

// Metadata describes how a result was produced.
type Metadata struct {
	Engine        string   `json:"engine,omitempty"`
	FileType      string   `json:"file_type"`
	ImageSize     string   `json:"image_size,omitempty"`
	Preprocessing []string `json:"preprocessing,omitempty"`
	DurationMs    int64    `json:"duration_ms"`
}

// DocumentResult is the complete extraction output for one source.
type DocumentResult struct {
	Source         string             `json:"source"`
	Text           string             `json:"text"`
	Blocks         []ocr.TextBlock    `json:"blocks,omitempty"`
	Confidence     float64            `json:"confidence"`
	Metadata       Metadata           `json:"metadata"`
	Layout         *layout.Layout     `json:"layout,omitempty"`
	Tables         []*tables.Table    `json:"tables,omitempty"`
	Statistics     *tables.Statistics `json:"statistics,omitempty"`
	TextStatistics *TextStats         `json:"text_statistics,omitempty"`
	Formatted      map[string]any     `json:"formatted,omitempty"`
	Errors         []string           `json:"errors,omitempty"`
}

// Config holds orchestrator construction parameters.
type Config struct {
	Registry    *ocr.Registry
	CacheSize   int
	MaxFileSize int64
	Logger      zerolog.Logger
}

// Processor owns the OCR registry and the bounded result cache. It is
// safe for concurrent use; results are idempotent, so two callers
// racing on the same fingerprint at worst duplicate work.
type Processor struct {
	registry    *ocr.Registry
	cache       *lru.Cache[string, *DocumentResult]
	maxFileSize int64
	logger      zerolog.Logger
}

// New creates a Processor.
func New(cfg Config) (*Processor, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("OCR registry is required")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}

	cache, err := lru.New[string, *DocumentResult](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Processor{
		registry:    cfg.Registry,
		cache:       cache,
		maxFileSize: cfg.MaxFileSize,
		logger:      cfg.Logger,
	}, nil
}

// fingerprint derives the cache key from the source path and the
// normalized options.
func fingerprint(path string, opts Options) string {
	encoded, _ := json.Marshal(opts)
	sum := sha256.Sum256(append([]byte(path+"\x00"), encoded...))
	return hex.EncodeToString(sum[:])
}

// imageExts routes to the OCR+layout path.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tiff": true, ".tif": true,
}

// containerExts need an external document decoder before this engine
// can extract anything.
var containerExts = map[string]bool{
	".pdf": true, ".docx": true, ".doc": true, ".ppt": true, ".pptx": true,
}

// SupportedFormats lists the extensions Process handles directly.
func SupportedFormats() []string {
	return []string{
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif",
		".html", ".htm", ".xml",
		".xlsx", ".xls",
		".csv",
		".txt", ".md", ".json",
	}
}

// Process extracts structure from one source file. Only an absent or
// unreadable input produces a hard error; every other failure is
// absorbed into the result's errors list.
func (p *Processor) Process(ctx context.Context, path string, opts Options) (*DocumentResult, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewMalformedSource(path, err)
	}

	key := fingerprint(path, opts)
	if cached, ok := p.cache.Get(key); ok {
		p.logger.Debug().Str("source", path).Msg("cache hit")
		return cached, nil
	}

	start := time.Now()
	var result *DocumentResult
	if p.maxFileSize > 0 && fi.Size() > p.maxFileSize {
		result = &DocumentResult{
			Source:   path,
			Metadata: Metadata{FileType: strings.ToLower(filepath.Ext(path))},
			Errors: []string{fmt.Sprintf("file size %d exceeds limit of %d bytes",
				fi.Size(), p.maxFileSize)},
		}
	} else {
		result = p.extract(ctx, path, opts)
	}
	if result.Text != "" {
		result.TextStatistics = ComputeTextStats(result.Text)
	}
	result.Metadata.DurationMs = time.Since(start).Milliseconds()

	p.applyFormats(result, opts)

	p.cache.Add(key, result)
	p.logger.Info().
		Str("source", path).
		Str("file_type", result.Metadata.FileType).
		Float64("confidence", result.Confidence).
		Int("tables", len(result.Tables)).
		Int("errors", len(result.Errors)).
		Msg("document processed")
	return result, nil
}

func (p *Processor) extract(ctx context.Context, path string, opts Options) *DocumentResult {
	ext := strings.ToLower(filepath.Ext(path))
	result := &DocumentResult{
		Source:   path,
		Metadata: Metadata{FileType: ext},
	}

	switch {
	case imageExts[ext]:
		p.extractImage(ctx, path, opts, result)
	case ext == ".html" || ext == ".htm" || ext == ".xml":
		p.extractMarkup(path, opts, result)
	case ext == ".xlsx" || ext == ".xls":
		p.extractWorkbook(path, opts, result)
	case ext == ".csv":
		p.extractDelimited(path, opts, result)
	case ext == ".txt" || ext == ".md" || ext == ".json":
		p.extractText(path, opts, result)
	case containerExts[ext]:
		result.Errors = append(result.Errors,
			fmt.Sprintf("format %s requires an external document decoder", ext))
	default:
		result.Errors = append(result.Errors, errors.NewUnsupportedFormat(ext).Error())
	}

	return result
}

// extractImage runs the OCR+layout path: decode, normalize, recognize
// and detect tables in the recognized text.
func (p *Processor) extractImage(ctx context.Context, path string, opts Options, result *DocumentResult) {
	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}

	b := img.Bounds()
	result.Metadata.ImageSize = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())

	gray := imaging.Grayscale(img)
	if opts.EnhanceResolution {
		gray = imaging.Enhance(gray)
		result.Metadata.Preprocessing = append(result.Metadata.Preprocessing, "enhance_resolution")
	}
	if opts.Preprocess {
		var warnings []imaging.Warning
		gray, warnings = imaging.Normalize(gray, imaging.Options{
			Denoise:         opts.Denoise,
			EnhanceContrast: opts.EnhanceContrast,
			Deskew:          opts.Deskew,
		})
		for _, w := range warnings {
			result.Errors = append(result.Errors, w.String())
		}
		result.Metadata.Preprocessing = append(result.Metadata.Preprocessing, appliedSteps(opts)...)
	}

	doc := p.registry.Run(ctx, opts.Engine, gray, opts.Language, opts.ConfidenceThreshold)
	result.Confidence = doc.Confidence
	result.Blocks = doc.Blocks
	result.Metadata.Engine = doc.Engine
	result.Errors = append(result.Errors, doc.Errors...)
	if opts.ExtractText {
		result.Text = doc.Text
	}

	if opts.DetectLayout {
		result.Layout = layout.Detect(gray)
	}

	if opts.ExtractTables && doc.Text != "" {
		result.Tables = tables.DetectTables(doc.Text)
		p.finishTables(result)
	}
}

func appliedSteps(opts Options) []string {
	steps := []string{"grayscale"}
	if opts.Denoise {
		steps = append(steps, "denoise")
	}
	if opts.EnhanceContrast {
		steps = append(steps, "enhance_contrast")
	}
	if opts.Deskew {
		steps = append(steps, "deskew")
	}
	return steps
}

func (p *Processor) extractMarkup(path string, opts Options, result *DocumentResult) {
	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}
	defer f.Close()

	r, err := resolveEncoding(f, opts.Encoding)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	ts, err := tables.ParseMarkup(r)
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}
	result.Tables = ts
	p.finishTables(result)
}

func (p *Processor) extractWorkbook(path string, opts Options, result *DocumentResult) {
	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}
	defer f.Close()

	ts, err := tables.ParseWorkbook(f, tables.SheetOptions{
		HeaderRow: opts.HeaderRow,
		SkipRows:  opts.SkipRows,
	})
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}
	result.Tables = ts
	p.finishTables(result)
}

func (p *Processor) extractDelimited(path string, opts Options, result *DocumentResult) {
	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}
	defer f.Close()

	r, err := resolveEncoding(f, opts.Encoding)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	t, err := tables.ParseDelimited(r, 0)
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}
	if t != nil {
		result.Tables = []*tables.Table{t}
	}
	p.finishTables(result)
}

func (p *Processor) extractText(path string, opts Options, result *DocumentResult) {
	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, errors.NewMalformedSource(path, err).Error())
		return
	}

	decoded, err := decodeBytes(data, opts.Encoding)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	text := string(decoded)
	if opts.ExtractText {
		result.Text = text
	}
	if opts.ExtractTables {
		result.Tables = tables.DetectTables(text)
		p.finishTables(result)
	}
}

// finishTables validates each table in place (replacing it with the
// cleaned copy), records validation issues and computes statistics.
func (p *Processor) finishTables(result *DocumentResult) {
	for i, t := range result.Tables {
		v := tables.Validate(t)
		result.Tables[i] = v.Cleaned
		for _, issue := range v.Issues {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: table %s: %s", errors.ValidationIssue, t.ID, issue))
		}
	}
	if len(result.Tables) > 0 {
		result.Statistics = tables.ComputeStatistics(result.Tables)
	}
}
