package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ms-events/internal/config"
	"ms-events/internal/database"
	"ms-events/internal/database/migrations"
	"ms-events/internal/kafka"
	"ms-events/internal/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	to := flag.Uint("to", 0, "migrate up or down to this version")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, log, *down, *to); err != nil {
		log.Error("MIGRATE", err.Error())
		log.Close()
		os.Exit(1)
	}
	log.Info("MIGRATE", "✅ Done")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, down bool, to uint) error {
	manager := database.NewManager(cfg.Database, log)
	defer manager.Close()

	conn, err := manager.GetConnection(ctx)
	if err != nil {
		return err
	}

	runner := migrations.NewRunner(conn, log)
	defer runner.Close()

	switch {
	case down:
		log.Warn("MIGRATE", "Rolling back all migrations")
		if err := runner.MigrateDown(ctx); err != nil {
			return err
		}
	case to > 0:
		if err := runner.MigrateTo(ctx, to); err != nil {
			return err
		}
	default:
		if err := runner.RunMigrations(ctx); err != nil {
			return err
		}
	}

	version, dirty, err := runner.Version(ctx)
	if err != nil {
		return err
	}
	log.Info("MIGRATE", fmt.Sprintf("Schema version %d (dirty=%t)", version, dirty))

	if cfg.Kafka.Enabled && !down {
		topics := []string{cfg.Kafka.Topics.Events, cfg.Kafka.Topics.Bookings}
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, topics, log); err != nil {
			return fmt.Errorf("kafka topics: %w", err)
		}
		log.Info("KAFKA", "Required topics ensured successfully")

		existing, err := kafka.ListTopics(ctx, cfg.Kafka.Brokers)
		if err != nil {
			return fmt.Errorf("list kafka topics: %w", err)
		}
		log.Info("KAFKA", fmt.Sprintf("Topics on cluster: %s", strings.Join(existing, ", ")))
	}
	return nil
}
