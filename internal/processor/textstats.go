/**
 * Text statistics
 *
 * Profiles the extracted plain text: character, word, sentence and
 * paragraph counts, the mean word length and the distinct case-folded
 * vocabulary size.
 */

package processor

import (
	"regexp"
	"strings"
)

var (
	sentenceSplitRe  = regexp.MustCompile(`[.!?]+`)
	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
)

// TextStats summarizes the extracted text of one document.
type TextStats struct {
	Characters        int     `json:"characters"`
	Words             int     `json:"words"`
	Sentences         int     `json:"sentences"`
	Paragraphs        int     `json:"paragraphs"`
	AverageWordLength float64 `json:"average_word_length"`
	UniqueWords       int     `json:"unique_words"`
}

// ComputeTextStats profiles text. Words are whitespace-separated runs;
// sentences split on terminal punctuation and paragraphs on blank
// lines, counting only non-blank segments.
func ComputeTextStats(text string) *TextStats {
	stats := &TextStats{Characters: len([]rune(text))}

	words := strings.Fields(text)
	stats.Words = len(words)

	unique := make(map[string]bool, len(words))
	runes := 0
	for _, w := range words {
		runes += len([]rune(w))
		unique[strings.ToLower(w)] = true
	}
	stats.UniqueWords = len(unique)
	if stats.Words > 0 {
		stats.AverageWordLength = float64(runes) / float64(stats.Words)
	}

	for _, seg := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			stats.Sentences++
		}
	}
	for _, seg := range paragraphSplitRe.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			stats.Paragraphs++
		}
	}
	return stats
}
