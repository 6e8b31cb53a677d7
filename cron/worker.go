package cron

import (
	"context"
	"encoding/json"
	"time"

	"ptaconnect/models"
	"ptaconnect/services/mailer"
	"ptaconnect/services/privacy"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitTaskWorker runs the async worker in background. It drains the email and
// data-request queues and periodically re-enqueues jobs stuck in processing.
func InitTaskWorker(mailSvc mailer.Mailer, privacySvc privacy.PrivacyService, logger *zap.Logger) {
	srv := asynq.NewServer(
		taskQueueRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailSend, handleEmailTask(mailSvc, logger))
	mux.HandleFunc(TypeDataRequestProcess, handleDataRequestTask(privacySvc, logger))

	go runStaleSweep(privacySvc, logger)

	go func() {
		logger.Info("Starting task worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Task worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("Task worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleEmailTask(mailSvc mailer.Mailer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.EmailTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid email task payload", zap.Error(err))
			return err
		}

		if err := mailSvc.Send(p.To, p.Subject, p.Body); err != nil {
			logger.Error("Failed to send email",
				zap.String("to", p.To), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleDataRequestTask(privacySvc privacy.PrivacyService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.DataRequestTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid data request task payload", zap.Error(err))
			return err
		}

		if err := privacySvc.ProcessDataRequest(p.RequestID); err != nil {
			logger.Error("Data request processing failed",
				zap.String("request_id", p.RequestID), zap.Error(err))
			return err
		}
		return nil
	}
}

// runStaleSweep re-enqueues data requests stuck in processing, e.g. after a
// worker crash mid-job.
func runStaleSweep(privacySvc privacy.PrivacyService, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if err := privacySvc.RequeueStale(); err != nil {
			logger.Error("Stale data request sweep failed", zap.Error(err))
		}
	}
}
