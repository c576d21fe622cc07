/**
 * Batch processing and document comparison
 *
 * Batch runs are embarrassingly parallel across documents; a failed
 * document is recorded in its own result and never aborts the batch.
 */

package processor

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ProcessBatch processes many sources concurrently. Results are
// returned in input order; a per-document hard failure becomes a
// result carrying only that error.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string, opts Options) []*DocumentResult {
	results := make([]*DocumentResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			result, err := p.Process(ctx, path, opts)
			if err != nil {
				result = &DocumentResult{
					Source: path,
					Errors: []string{err.Error()},
				}
			}
			results[i] = result
		}(i, path)
	}
	wg.Wait()

	return results
}

// ProcessDirectory processes every supported file in dir matching
// pattern (a filepath glob, empty means all files).
func (p *Processor) ProcessDirectory(ctx context.Context, dir, pattern string, opts Options) ([]*DocumentResult, error) {
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	supported := make(map[string]bool)
	for _, ext := range SupportedFormats() {
		supported[ext] = true
	}

	var paths []string
	for _, m := range matches {
		if supported[strings.ToLower(filepath.Ext(m))] {
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)

	return p.ProcessBatch(ctx, paths, opts), nil
}

// Comparison reports how similar two extraction results are.
type Comparison struct {
	SourceA     string  `json:"source_a"`
	SourceB     string  `json:"source_b"`
	Similarity  float64 `json:"similarity"`
	CommonWords int     `json:"common_words"`
	TablesA     int     `json:"tables_a"`
	TablesB     int     `json:"tables_b"`
}

// Compare computes the Jaccard similarity of the two results' word
// sets, case-folded.
func Compare(a, b *DocumentResult) Comparison {
	setA := wordSet(a.Text)
	setB := wordSet(b.Text)

	common := 0
	for w := range setA {
		if setB[w] {
			common++
		}
	}
	union := len(setA) + len(setB) - common

	c := Comparison{
		SourceA:     a.Source,
		SourceB:     b.Source,
		CommonWords: common,
		TablesA:     len(a.Tables),
		TablesB:     len(b.Tables),
	}
	if union > 0 {
		c.Similarity = float64(common) / float64(union)
	} else {
		c.Similarity = 1
	}
	return c
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}
