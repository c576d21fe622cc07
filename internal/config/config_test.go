/**
 * Configuration loading and validation tests
 */

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "extract", cfg.QueueName)
	assert.Equal(t, 10, cfg.WorkerConcurrency)
	assert.Equal(t, "auto", cfg.OCREngine)
	assert.Equal(t, 30.0, cfg.ConfidenceThreshold)
	assert.True(t, cfg.EnableTesseract)
	assert.False(t, cfg.EnablePaddle)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OCR_ENGINE", "paddle")
	t.Setenv("WORKER_CONCURRENCY", "4")
	t.Setenv("CONFIDENCE_THRESHOLD", "55.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "paddle", cfg.OCREngine)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
	assert.Equal(t, 55.5, cfg.ConfidenceThreshold)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.WorkerConcurrency)
}

func TestValidateRejectsBadEngine(t *testing.T) {
	t.Setenv("OCR_ENGINE", "abbyy")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR_ENGINE")
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "150")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIDENCE_THRESHOLD")
}

func TestValidateRejectsZeroCacheSize(t *testing.T) {
	t.Setenv("RESULT_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESULT_CACHE_SIZE")
}
