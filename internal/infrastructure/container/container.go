// Package container wires the application together using Uber FX.
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	basketapp "github.com/modushop/v2/internal/application/basket"
	catalogapp "github.com/modushop/v2/internal/application/catalog"
	orderingapp "github.com/modushop/v2/internal/application/ordering"
	"github.com/modushop/v2/internal/domain/shared"
	"github.com/modushop/v2/internal/infrastructure/cache"
	"github.com/modushop/v2/internal/infrastructure/config"
	"github.com/modushop/v2/internal/infrastructure/events"
	"github.com/modushop/v2/internal/infrastructure/http/server"
	memorybus "github.com/modushop/v2/internal/infrastructure/messaging/memory"
	redisbus "github.com/modushop/v2/internal/infrastructure/messaging/redis"
	gormRepo "github.com/modushop/v2/internal/infrastructure/persistence/gorm"
	"github.com/modushop/v2/internal/infrastructure/persistence/memory"
	"github.com/modushop/v2/internal/infrastructure/persistence/migrations"
	"github.com/modushop/v2/internal/ports/outbound"
	"github.com/modushop/v2/pkg/healthcheck"
	"github.com/modushop/v2/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RedisModule,
	MetricsModule,
	CacheModule,

	// Event pipeline
	EventModule,
	MessagingModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HealthModule,
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the PostgreSQL connection and runs pending
// migrations when the configuration asks for it.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
			Logger: gormLogger.Default.LogMode(logLevel),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

		// The database may still be starting alongside the app.
		var pingErr error
		for attempt := 1; attempt <= 5; attempt++ {
			if pingErr = sqlDB.Ping(); pingErr == nil {
				break
			}
			log.Warn("Database not ready, retrying",
				zap.Int("attempt", attempt),
				zap.Error(pingErr),
			)
			time.Sleep(time.Duration(attempt) * time.Second)
		}
		if pingErr != nil {
			return nil, fmt.Errorf("database unreachable: %w", pingErr)
		}

		if cfg.Database.MigrateOnStart {
			migrator, err := migrations.New(sqlDB, cfg.Database.Database, log)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize migrator: %w", err)
			}
			if err := migrator.Up(); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		log.Info("Connected to PostgreSQL database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)

		return db, nil
	},
)

// RedisModule provides the Redis client shared by the cache and the message
// bus. The client connects lazily, so it is safe to build even when both are
// configured off.
var RedisModule = fx.Provide(
	func(cfg *config.Config) redis.UniversalClient {
		return redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.Database,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
	},
)

// MetricsModule provides the Prometheus registry
var MetricsModule = fx.Provide(
	func() *prometheus.Registry {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return registry
	},
)

// CacheModule provides the cache repository backing the cart read path.
var CacheModule = fx.Provide(
	func(cfg *config.Config, client redis.UniversalClient, log *zap.Logger) outbound.CacheRepository {
		if cfg.Cache.Enabled {
			return cache.NewRedisCache(client, log)
		}
		log.Info("Cart cache disabled, using in-memory cache for invalidation hooks")
		return memory.NewCacheRepository()
	},
)

// EventModule provides the in-process dispatcher and the save pipeline built
// on top of it.
var EventModule = fx.Provide(
	func(reg *prometheus.Registry) *events.Metrics {
		return events.NewMetrics(reg)
	},
	fx.Annotate(
		events.NewDispatcher,
		fx.As(new(shared.EventDispatcher)),
	),
	gormRepo.NewSaveInterceptor,
	func(db *gorm.DB) gormRepo.TxRunner {
		return gormRepo.NewGormTxRunner(db)
	},
	func(cfg *config.Config, interceptor *gormRepo.SaveInterceptor, runner gormRepo.TxRunner) outbound.UnitOfWorkFactory {
		factory := gormRepo.NewUnitOfWorkFactory(interceptor, runner)
		if cfg.Events.DispatchMode == "detached" {
			// Configuration can force detached dispatch regardless of
			// what the caller asks for.
			return func(outbound.DispatchMode) outbound.UnitOfWork {
				return factory(outbound.DispatchDetached)
			}
		}
		return factory
	},
)

// MessagingModule provides the integration-event bus
var MessagingModule = fx.Provide(
	func(cfg *config.Config, client redis.UniversalClient, log *zap.Logger) outbound.MessageBus {
		if cfg.Events.BusDriver == "memory" {
			log.Info("Using in-memory message bus")
			return memorybus.NewBus(log)
		}
		return redisbus.NewBus(client, log)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewProductRepository,
	gormRepo.NewOrderRepository,

	// Basket repository, wrapped in the cache decorator when enabled
	func(db *gorm.DB, cacheRepo outbound.CacheRepository, cfg *config.Config, log *zap.Logger) outbound.BasketRepository {
		repo := gormRepo.NewBasketRepository(db)
		if cfg.Cache.Enabled {
			repo = cache.NewCachedBasketRepository(repo, cacheRepo, cfg.Cache.CartTTL, log)
		}
		return repo
	},
)

// ServiceModule provides application services and event handlers
var ServiceModule = fx.Provide(
	func() *validator.Validate {
		return validator.New()
	},

	catalogapp.NewCatalogService,
	basketapp.NewBasketService,
	orderingapp.NewOrderingService,

	events.NewPriceChangedBridge,
	events.NewCatalogCacheInvalidator,
	events.NewOrderNotifier,
	orderingapp.NewCheckoutHandler,
	basketapp.NewPriceChangedConsumer,
)

// HealthModule provides health checks for the readiness endpoint
var HealthModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, db *gorm.DB, client redis.UniversalClient) *healthcheck.HealthCheck {
		health := healthcheck.New(cfg.App.Version, log)
		health.Register("database", healthcheck.NewDatabaseChecker(db, 2*time.Second))
		if cfg.Cache.Enabled || cfg.Events.BusDriver == "redis" {
			health.Register("redis", healthcheck.NewRedisChecker(client, 2*time.Second))
		}
		return health
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule registers event handlers and lifecycle hooks
var LifecycleModule = fx.Options(
	fx.Invoke(RegisterEventHandlers),
	fx.Invoke(RegisterLifecycleHooks),
)

// RegisterEventHandlers attaches the in-process handlers to the dispatcher.
// Registration happens before the server starts taking requests, so no commit
// can race an unregistered handler.
func RegisterEventHandlers(
	dispatcher shared.EventDispatcher,
	bridge *events.PriceChangedBridge,
	invalidator *events.CatalogCacheInvalidator,
	notifier *events.OrderNotifier,
	checkout *orderingapp.CheckoutHandler,
) {
	bridge.RegisterOn(dispatcher)
	invalidator.RegisterOn(dispatcher)
	notifier.RegisterOn(dispatcher)
	checkout.RegisterOn(dispatcher)
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	bus outbound.MessageBus,
	client redis.UniversalClient,
	consumer *basketapp.PriceChangedConsumer,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting ModuShop application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			// Subscribe the cross-module consumer before serving traffic.
			if err := consumer.Start(ctx); err != nil {
				return fmt.Errorf("failed to start price-changed consumer: %w", err)
			}

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down ModuShop application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if err := bus.Close(); err != nil {
				log.Error("Failed to close message bus", zap.Error(err))
			}

			if err := client.Close(); err != nil {
				log.Error("Failed to close Redis client", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
