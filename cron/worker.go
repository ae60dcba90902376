package cron

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"experiencehub/config"
	"experiencehub/services/tasks"
)

// RedisOpt is the asynq connection for the reconcile queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReconcileWorker starts the asynq server that handles reconcile tasks and
// a scheduler that enqueues a full sweep every ReconcileInterval. The returned
// func stops both.
func InitReconcileWorker(handler *tasks.ReconcileHandler, logger *zap.Logger) (func(), error) {
	redisOpts := RedisOpt()

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: config.AppConfig.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger:   logger.Sugar(),
			LogLevel: asynq.WarnLevel,
		},
	)

	mux := asynq.NewServeMux()
	handler.Register(mux)

	const maxAttempts = 5
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = srv.Start(mux); err == nil {
			break
		}
		logger.Warn("Failed to start reconcile worker",
			zap.Int("attempt", attempts),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err))
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("reconcile worker did not start: %w", err)
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   logger.Sugar(),
		LogLevel: asynq.WarnLevel,
	})
	spec := fmt.Sprintf("@every %s", config.AppConfig.ReconcileInterval)
	if _, err := scheduler.Register(spec, tasks.NewSweepTask()); err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("failed to register inventory sweep: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("Reconcile worker started",
		zap.Int("concurrency", config.AppConfig.WorkerConcurrency),
		zap.Duration("sweepInterval", config.AppConfig.ReconcileInterval))

	return func() {
		scheduler.Shutdown()
		srv.Shutdown()
	}, nil
}
