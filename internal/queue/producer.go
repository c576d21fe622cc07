/**
 * Job producer
 *
 * Enqueues extraction jobs and reads back published results. Used by
 * the CLI and by any service embedding the engine.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/docforge/extract/internal/processor"
)

// Producer submits extraction jobs to the queue.
type Producer struct {
	client    *asynq.Client
	redis     *redis.Client
	queueName string
}

// NewProducer creates a job producer.
func NewProducer(redisURL, queueName string) (*Producer, error) {
	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &Producer{
		client:    asynq.NewClient(redisOpt),
		redis:     redis.NewClient(opt),
		queueName: queueName,
	}, nil
}

// Close releases the queue connections.
func (p *Producer) Close() error {
	if err := p.client.Close(); err != nil {
		return err
	}
	return p.redis.Close()
}

// Enqueue submits one extraction job.
func (p *Producer) Enqueue(ctx context.Context, jobID, path string, opts processor.Options) error {
	payload, err := json.Marshal(JobPayload{
		JobID:   jobID,
		Path:    path,
		Options: opts,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskExtractDocument, payload)
	_, err = p.client.EnqueueContext(ctx, task, asynq.Queue(p.queueName), asynq.MaxRetry(3))
	return err
}

// Result fetches a published job result, or nil when the job has not
// completed yet.
func (p *Producer) Result(ctx context.Context, jobID string) (*JobResult, error) {
	key := fmt.Sprintf("%s:results", p.queueName)
	data, err := p.redis.HGet(ctx, key, jobID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var jr JobResult
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, err
	}
	return &jr, nil
}
