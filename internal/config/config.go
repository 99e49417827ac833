package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Log         LogConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Migrations  MigrationsConfig
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	File  string `env:"LOG_FILE"`
}

// DatabaseConfig carries the connection URI and an optional database name
// that overrides the one in the URI.
type DatabaseConfig struct {
	URI  string `env:"DATABASE_URI" validate:"required"`
	Name string `env:"DATABASE_NAME"`
}

type RedisConfig struct {
	Enabled  bool
	Addr     string        `env:"REDIS_ADDR" validate:"required_if=Enabled true"`
	CacheTTL time.Duration `env:"EVENT_CACHE_TTL_SECONDS" validate:"gt=0"`
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string `env:"KAFKA_BROKERS" validate:"required_if=Enabled true"`
	Topics  TopicConfig
}

type TopicConfig struct {
	Events   string `env:"KAFKA_TOPIC_EVENTS" validate:"required"`
	Bookings string `env:"KAFKA_TOPIC_BOOKINGS" validate:"required"`
}

type MigrationsConfig struct {
	Auto bool
}

// Load reads configuration from the environment. Outside production a .env
// file is loaded first if one exists.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("config: .env file not loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment: env,
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
			File:  os.Getenv("LOG_FILE"),
		},
		Database: DatabaseConfig{
			URI:  os.Getenv("DATABASE_URI"),
			Name: os.Getenv("DATABASE_NAME"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			CacheTTL: time.Duration(getEnvInt("EVENT_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topics: TopicConfig{
				Events:   getEnv("KAFKA_TOPIC_EVENTS", "events.events"),
				Bookings: getEnv("KAFKA_TOPIC_BOOKINGS", "events.bookings"),
			},
		},
		Migrations: MigrationsConfig{
			Auto: getEnvBool("MIGRATIONS_AUTO", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
