package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"fuel-delivery-service/internal/logx"
	"fuel-delivery-service/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the HTTP API.
type Runner struct {
	runFn func(*dig.Container) error
	exit  func(int)
}

// NewRunner returns a Runner serving the API container.
func NewRunner() *Runner {
	return &Runner{runFn: run, exit: os.Exit}
}

// MustRun serves until the container context is cancelled. Any other failure exits the process.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		if r.exit != nil {
			r.exit(1)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(serve)
}

type serveIn struct {
	dig.In

	Ctx      context.Context
	Server   *http.Server
	Pprof    *http.Server `name:"pprof_server" optional:"true"`
	Pool     *pgxpool.Pool
	Producer *kafka.Producer
	Logger   logx.Logger
}

func serve(in serveIn) error {
	ctx, logger := in.Ctx, in.Logger
	defer closeResources(in.Pool, in.Producer, logger, in.Server, in.Pprof)

	if err := applyMigrations(ctx, in.Pool, logger); err != nil {
		return err
	}

	errCh := make(chan error, 2)
	startServer(in.Server, "fuel-delivery-service listening", logger, errCh)
	if in.Pprof != nil {
		startServer(in.Pprof, "pprof listening", logger, errCh)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down fuel-delivery-service")
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	gracefulShutdown(in.Server, logger, shutdownTimeout)
	if in.Pprof != nil {
		gracefulShutdown(in.Pprof, logger, shutdownTimeout)
	}
	return ctx.Err()
}

func startServer(server *http.Server, msg string, logger logx.Logger, errCh chan<- error) {
	go func() {
		logger.Info(msg, logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, producer *kafka.Producer, logger logx.Logger, servers ...*http.Server) {
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Close(); err != nil {
			logger.Error("server close error", logx.Err(err))
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka producer close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}
