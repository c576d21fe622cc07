/**
 * Queue Consumer for the extraction worker
 *
 * Consumes extraction jobs from a Redis queue via Asynq, runs the
 * orchestrator under a caller-owned timeout and publishes results to
 * a Redis hash keyed by job ID. The engine itself has no retry
 * policy; Asynq's retry with exponential backoff is the orchestrating
 * caller's policy.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/docforge/extract/internal/errors"
	"github.com/docforge/extract/internal/logging"
	"github.com/docforge/extract/internal/processor"
)

// TaskExtractDocument is the asynq task type for extraction jobs.
const TaskExtractDocument = "extract:document"

// JobPayload is the wire format of one extraction job.
type JobPayload struct {
	JobID   string            `json:"job_id"`
	Path    string            `json:"path"`
	Options processor.Options `json:"options"`
}

// JobResult is what gets published to the results hash.
type JobResult struct {
	JobID      string                    `json:"job_id"`
	Status     string                    `json:"status"`
	DurationMs int64                     `json:"duration_ms"`
	Result     *processor.DocumentResult `json:"result,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	RedisURL          string
	QueueName         string
	Concurrency       int
	ProcessingTimeout int // milliseconds
	Processor         *processor.Processor
}

// Consumer pulls extraction jobs and runs them through the processor.
type Consumer struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	redis     *redis.Client
	processor *processor.Processor
	config    *ConsumerConfig
	logger    zerolog.Logger
}

// NewConsumer creates a queue consumer. The Redis connection is
// verified at construction.
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}
	if cfg.QueueName == "" {
		return nil, fmt.Errorf("QueueName is required")
	}
	if cfg.Processor == nil {
		return nil, fmt.Errorf("Processor is required")
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger := logging.WithComponent("queue")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				cfg.QueueName: 10,
				"default":     1,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := time.Duration(5*(1<<uint(n))) * time.Second
				if delay > 60*time.Second {
					delay = 60 * time.Second
				}
				return delay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error().
					Str("task_type", task.Type()).
					Err(err).
					Msg("task processing error")
			}),
		},
	)

	mux := asynq.NewServeMux()

	c := &Consumer{
		server:    server,
		mux:       mux,
		redis:     rdb,
		processor: cfg.Processor,
		config:    cfg,
		logger:    logger,
	}
	mux.HandleFunc(TaskExtractDocument, c.handleExtractDocument)

	return c, nil
}

// Start runs the consumer in the background.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Int("concurrency", c.config.Concurrency).
		Str("queue", c.config.QueueName).
		Msg("starting queue consumer")

	go func() {
		if err := c.server.Run(c.mux); err != nil {
			c.logger.Error().Err(err).Msg("queue consumer stopped")
		}
	}()

	return nil
}

// Stop shuts the consumer down gracefully.
func (c *Consumer) Stop(ctx context.Context) error {
	c.logger.Info().Msg("stopping queue consumer")
	c.server.Shutdown()
	return c.redis.Close()
}

// handleExtractDocument runs one extraction job under the configured
// timeout and publishes the outcome.
func (c *Consumer) handleExtractDocument(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	var payload JobPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal job payload: %w", err)
	}

	logger := logging.WithJobID(payload.JobID)
	logger.Info().Str("source", payload.Path).Msg("processing extraction job")

	timeout := 300000 * time.Millisecond
	if c.config.ProcessingTimeout > 0 {
		timeout = time.Duration(c.config.ProcessingTimeout) * time.Millisecond
	}
	processCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.processor.Process(processCtx, payload.Path, payload.Options)
	duration := time.Since(start)

	if err != nil {
		if processCtx.Err() == context.DeadlineExceeded {
			timeoutErr := errors.NewProcessingTimeout(payload.JobID, timeout, err)
			logger.Error().Dur("duration", duration).Msg("extraction job timed out")
			c.publish(ctx, &JobResult{
				JobID:      payload.JobID,
				Status:     "failed",
				DurationMs: duration.Milliseconds(),
				Error:      timeoutErr.Error(),
			})
			return fmt.Errorf("processing timeout: %w", timeoutErr)
		}

		logger.Error().Err(err).Dur("duration", duration).Msg("extraction job failed")
		c.publish(ctx, &JobResult{
			JobID:      payload.JobID,
			Status:     "failed",
			DurationMs: duration.Milliseconds(),
			Error:      err.Error(),
		})
		return fmt.Errorf("extraction failed: %w", err)
	}

	logger.Info().
		Dur("duration", duration).
		Float64("confidence", result.Confidence).
		Int("tables", len(result.Tables)).
		Msg("extraction job completed")

	c.publish(ctx, &JobResult{
		JobID:      payload.JobID,
		Status:     "completed",
		DurationMs: duration.Milliseconds(),
		Result:     result,
	})
	return nil
}

// publish writes the job outcome to the results hash and emits an
// event for subscribers.
func (c *Consumer) publish(ctx context.Context, jr *JobResult) {
	data, err := json.Marshal(jr)
	if err != nil {
		c.logger.Error().Err(err).Str("job_id", jr.JobID).Msg("failed to marshal job result")
		return
	}

	key := fmt.Sprintf("%s:results", c.config.QueueName)
	if err := c.redis.HSet(ctx, key, jr.JobID, data).Err(); err != nil {
		c.logger.Error().Err(err).Str("job_id", jr.JobID).Msg("failed to store job result")
	}

	events := fmt.Sprintf("%s:events", c.config.QueueName)
	if err := c.redis.Publish(ctx, events, data).Err(); err != nil {
		c.logger.Warn().Err(err).Str("job_id", jr.JobID).Msg("failed to publish job event")
	}
}

// Stats reports queue depth and consumer settings.
func (c *Consumer) Stats(ctx context.Context) (map[string]interface{}, error) {
	pending, err := c.redis.HLen(ctx, fmt.Sprintf("%s:results", c.config.QueueName)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	return map[string]interface{}{
		"queue":       c.config.QueueName,
		"concurrency": c.config.Concurrency,
		"results":     pending,
	}, nil
}
