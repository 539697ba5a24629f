package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"fuel-delivery-service/internal/logx"
	"fuel-delivery-service/internal/transport/kafka"
)

// WorkerRunner runs the status events consumer.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes until the container context is cancelled and panics on any other error.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	producer *kafka.Producer,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(pool, logger, consumer, producer)

	if err := applyMigrations(ctx, pool, logger); err != nil {
		return err
	}

	logger.Info("fuel-delivery-worker started")
	return consumer.Run(ctx)
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, consumer *kafka.Consumer, producer *kafka.Producer) {
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka consumer close error", logx.Err(err))
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka producer close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}
