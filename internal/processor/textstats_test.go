/**
 * Text statistics tests
 */

package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTextStats(t *testing.T) {
	stats := ComputeTextStats("Hello world. Hello again!\n\nNew paragraph?")
	assert.Equal(t, 6, stats.Words)
	assert.Equal(t, 3, stats.Sentences)
	assert.Equal(t, 2, stats.Paragraphs)
	assert.Equal(t, 5, stats.UniqueWords)
	assert.InDelta(t, 35.0/6.0, stats.AverageWordLength, 0.001)
}

func TestComputeTextStatsEmpty(t *testing.T) {
	stats := ComputeTextStats("")
	assert.Zero(t, stats.Words)
	assert.Zero(t, stats.Sentences)
	assert.Zero(t, stats.Paragraphs)
	assert.Zero(t, stats.AverageWordLength)
}

func TestComputeTextStatsNoTerminalPunctuation(t *testing.T) {
	stats := ComputeTextStats("just one line of plain words")
	assert.Equal(t, 6, stats.Words)
	assert.Equal(t, 1, stats.Sentences)
	assert.Equal(t, 1, stats.Paragraphs)
}
