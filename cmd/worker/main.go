/**
 * Extraction Worker - Main Entry Point
 *
 * Long-running worker for document structure extraction.
 *
 * Architecture:
 * - Asynq consumer for a Redis-backed job queue
 * - OCR backend registry (Tesseract and/or PaddleOCR) with automatic
 *   engine selection
 * - Image normalization, layout analysis and table extraction
 *   pipeline with a bounded result cache
 * - Results published to a Redis hash per queue
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/docforge/extract/internal/config"
	"github.com/docforge/extract/internal/logging"
	"github.com/docforge/extract/internal/ocr"
	"github.com/docforge/extract/internal/processor"
	"github.com/docforge/extract/internal/queue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	log.Info().
		Str("redis", cfg.RedisURL).
		Str("queue", cfg.QueueName).
		Int("concurrency", cfg.WorkerConcurrency).
		Str("engine", cfg.OCREngine).
		Msg("extraction worker starting")

	registry, paddle := buildRegistry(cfg)
	if paddle != nil {
		defer paddle.Close()
	}
	if len(registry.Names()) == 0 {
		log.Warn().Msg("no OCR backend enabled, image sources will yield empty text")
	}

	proc, err := processor.New(processor.Config{
		Registry:    registry,
		CacheSize:   cfg.CacheSize,
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logging.WithComponent("processor"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize processor")
	}

	consumer, err := queue.NewConsumer(&queue.ConsumerConfig{
		RedisURL:          cfg.RedisURL,
		QueueName:         cfg.QueueName,
		Concurrency:       cfg.WorkerConcurrency,
		ProcessingTimeout: cfg.ProcessingTimeout,
		Processor:         proc,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize queue consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start queue consumer")
	}
	log.Info().Msg("extraction worker ready")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutdown signal received")
	if err := consumer.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("extraction worker stopped")
}

// buildRegistry registers the enabled OCR backends. The paddle
// backend owns model resources and is returned for shutdown.
func buildRegistry(cfg *config.Config) (*ocr.Registry, *ocr.Paddle) {
	registry := ocr.NewRegistry()

	var paddle *ocr.Paddle
	if cfg.EnablePaddle {
		p, err := ocr.NewPaddle()
		if err != nil {
			log.Warn().Err(err).Msg("paddle backend unavailable")
		} else {
			registry.Register(p)
			paddle = p
			log.Info().Msg("paddle backend registered")
		}
	}

	if cfg.EnableTesseract {
		registry.Register(ocr.NewTesseract())
		log.Info().Msg("tesseract backend registered")
	}

	return registry, paddle
}
