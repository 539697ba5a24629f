package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"fuel-delivery-service/internal/auth/password"
	"fuel-delivery-service/internal/auth/token"
	"fuel-delivery-service/internal/config"
	"fuel-delivery-service/internal/http/handlers"
	"fuel-delivery-service/internal/http/pprofserver"
	appmw "fuel-delivery-service/internal/http/middleware"
	"fuel-delivery-service/internal/http/router"
	"fuel-delivery-service/internal/logx"
	"fuel-delivery-service/internal/repository"
	"fuel-delivery-service/internal/service/delivery"
	"fuel-delivery-service/internal/service/pricing"
	"fuel-delivery-service/internal/service/user"
	"fuel-delivery-service/internal/transport/kafka"
)

var loadConfig = config.Load

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the API container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the status events worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildBase(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildBase(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildBase(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the API container with default dependencies.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container with default dependencies.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() (*config.Config, error) { return loadConfig() },
		NewLogger,
		newRegistry,
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
		provideMetrics,
	)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type deliveryServiceIn struct {
	dig.In

	Config      *config.Config
	Logger      logx.Logger
	Repo        *repository.DeliveryRepo
	Users       *repository.UserRepo
	Pricing     *pricing.Service
	Producer    *kafka.Producer
	Transitions *prometheus.CounterVec `name:"status_transitions_total"`
}

func newDeliveryService(in deliveryServiceIn) *delivery.Service {
	var events delivery.EventPublisher
	if in.Producer != nil {
		events = in.Producer
	}
	return delivery.NewDeliveryService(
		in.Repo, in.Users, in.Pricing, events,
		in.Config.OperationTimeout, in.Logger,
		delivery.WithTransitionsCounter(in.Transitions),
	)
}

type userServiceIn struct {
	dig.In

	Config        *config.Config
	Logger        logx.Logger
	Repo          *repository.UserRepo
	Hasher        *password.Hasher
	Signer        *token.Signer
	LoginFailures prometheus.Counter `name:"login_failures_total"`
}

func newUserService(in userServiceIn) *user.Service {
	return user.NewService(in.Repo, in.Hasher, in.Signer, in.Config.OperationTimeout, in.Logger,
		user.WithLoginFailuresCounter(in.LoginFailures),
	)
}

type producerIn struct {
	dig.In

	Config   *config.Config
	Logger   logx.Logger
	Failures prometheus.Counter `name:"event_publish_failures_total"`
}

func newEventsProducer(in producerIn) (*kafka.Producer, error) {
	return kafka.NewProducer(in.Logger, in.Config.Kafka.Brokers, in.Config.Kafka.EventsTopic,
		kafka.WithFailuresCounter(in.Failures),
	)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewUserRepo,
		repository.NewDeliveryRepo,
		repository.NewPricingRepo,
		func(cfg *config.Config) (*password.Hasher, error) {
			return password.NewHasher(cfg.Auth.BcryptCost)
		},
		func(cfg *config.Config) (*token.Signer, error) {
			return token.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		},
		func(cfg *config.Config, repo *repository.PricingRepo, logger logx.Logger) *pricing.Service {
			return pricing.NewService(repo, cfg.OperationTimeout, logger)
		},
		newUserService,
		newEventsProducer,
		newDeliveryService,
	)
}

type pprofServerOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func newPprofServer(cfg *config.Config, logger logx.Logger) pprofServerOut {
	if !cfg.Pprof.Enabled {
		return pprofServerOut{}
	}
	return pprofServerOut{Server: pprofserver.New(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	}, logger.With(logx.String("component", "pprof")))}
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger) *handlers.Handlers {
			return handlers.New(logger, cfg.Debug())
		},
		func(cfg *config.Config, logger logx.Logger, svc *user.Service) *handlers.AuthHandler {
			return handlers.NewAuthHandler(logger, cfg.Debug(), handlers.NewUserUsecase(svc))
		},
		func(cfg *config.Config, logger logx.Logger, svc *user.Service) *handlers.UserHandler {
			return handlers.NewUserHandler(logger, cfg.Debug(), handlers.NewUserUsecase(svc))
		},
		func(cfg *config.Config, logger logx.Logger, svc *delivery.Service) *handlers.DeliveryHandler {
			return handlers.NewDeliveryHandler(logger, cfg.Debug(), handlers.NewDeliveryUsecase(svc))
		},
		func(cfg *config.Config, logger logx.Logger, svc *pricing.Service) *handlers.PricingHandler {
			return handlers.NewPricingHandler(logger, cfg.Debug(), handlers.NewPricingUsecase(svc))
		},
		func(cfg *config.Config, logger logx.Logger, signer *token.Signer) *appmw.Auth {
			return appmw.NewAuth(logger, signer, cfg.Debug())
		},
		func(cfg *config.Config) router.Security {
			return router.Security{
				Production:     cfg.Production(),
				AllowedOrigins: cfg.CORS.AllowedOrigins,
			}
		},
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
		newPprofServer,
	)
}
