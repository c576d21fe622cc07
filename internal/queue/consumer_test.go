/**
 * Consumer configuration validation tests
 */

package queue

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/extract/internal/ocr"
	"github.com/docforge/extract/internal/processor"
)

func testProcessor(t *testing.T) *processor.Processor {
	t.Helper()
	p, err := processor.New(processor.Config{
		Registry:  ocr.NewRegistry(),
		CacheSize: 4,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return p
}

func TestNewConsumerRequiresRedisURL(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{
		QueueName: "extract",
		Processor: testProcessor(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RedisURL")
}

func TestNewConsumerRequiresQueueName(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{
		RedisURL:  "redis://localhost:6379",
		Processor: testProcessor(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QueueName")
}

func TestNewConsumerRequiresProcessor(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{
		RedisURL:  "redis://localhost:6379",
		QueueName: "extract",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Processor")
}

func TestNewConsumerRejectsMalformedRedisURL(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{
		RedisURL:  "not a url",
		QueueName: "extract",
		Processor: testProcessor(t),
	})
	require.Error(t, err)
}
