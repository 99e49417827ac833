package app

import (
	"context"
	"errors"
	"fmt"

	"ms-events/internal/bookings"
	bookingsdb "ms-events/internal/bookings/db"
	"ms-events/internal/config"
	"ms-events/internal/database"
	"ms-events/internal/database/migrations"
	"ms-events/internal/events"
	"ms-events/internal/events/cache"
	eventsdb "ms-events/internal/events/db"
	"ms-events/internal/kafka"
	"ms-events/internal/logger"

	"github.com/go-redis/redis/v8"
)

type publisher interface {
	events.Publisher
	bookings.Publisher
	Close() error
}

// App wires the services to their storage, cache and notification backends.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *database.Manager
	Events   *events.Service
	Bookings *bookings.Service

	redis     *redis.Client
	publisher publisher
}

// New builds the services. Nothing is dialed here except Redis, which is
// pinged when enabled; the database connects on first use.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{
		Config: cfg,
		Logger: log,
		DB:     database.NewManager(cfg.Database, log),
	}

	var eventCache events.Cache = cache.NopCache{}
	if cfg.Redis.Enabled {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.redis.Close()
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
		eventCache = cache.NewRedisEventCache(a.redis, cfg.Redis.CacheTTL)
	} else {
		log.Info("REDIS", "Event cache disabled")
	}

	if cfg.Kafka.Enabled {
		a.publisher = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Events, cfg.Kafka.Topics.Bookings, log)
		log.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		a.publisher = kafka.NopPublisher{}
		log.Info("KAFKA", "Change notifications disabled")
	}

	a.Events = events.NewService(&eventsdb.DB{Conn: a.DB}, eventCache, a.publisher, log)
	a.Bookings = bookings.NewService(&bookingsdb.DB{Conn: a.DB}, a.Events, a.publisher, log)
	return a, nil
}

// Migrate applies pending schema migrations through the shared handle.
func (a *App) Migrate(ctx context.Context) error {
	conn, err := a.DB.GetConnection(ctx)
	if err != nil {
		return err
	}
	runner := migrations.NewRunner(conn, a.Logger)
	defer runner.Close()
	return runner.RunMigrations(ctx)
}

// Start connects to the database and, when configured, migrates it.
func (a *App) Start(ctx context.Context) error {
	if _, err := a.DB.GetConnection(ctx); err != nil {
		return err
	}
	if a.Config.Migrations.Auto {
		if err := a.Migrate(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.DB.Close())
	return errors.Join(errs...)
}
