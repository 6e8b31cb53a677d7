package cron

import (
	"encoding/json"
	"fmt"

	"ptaconnect/config"
	"ptaconnect/models"

	"github.com/hibiken/asynq"
)

// Task types handled by the worker.
const (
	TypeEmailSend          = "email:send"
	TypeDataRequestProcess = "datarequest:process"
)

// taskQueueRedisOpts builds the Redis connection options shared by the client
// and the worker.
func taskQueueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// Queue wraps the asynq client. It satisfies both the privacy and the
// announcement enqueuer interfaces so one client serves both services.
type Queue struct {
	client *asynq.Client
}

// NewQueue creates the task queue client.
func NewQueue() *Queue {
	return &Queue{client: asynq.NewClient(taskQueueRedisOpts())}
}

// EnqueueEmail queues one outbound email.
func (q *Queue) EnqueueEmail(payload models.EmailTaskPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}
	if _, err := q.client.Enqueue(asynq.NewTask(TypeEmailSend, data), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	return nil
}

// EnqueueDataRequest queues an export or deletion job.
func (q *Queue) EnqueueDataRequest(payload models.DataRequestTaskPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal data request payload: %w", err)
	}
	if _, err := q.client.Enqueue(asynq.NewTask(TypeDataRequestProcess, data), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue data request task: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (q *Queue) Close() error {
	return q.client.Close()
}
