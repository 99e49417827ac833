package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"ms-events/internal/config"
	"ms-events/internal/database"
	"ms-events/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Log:      config.LogConfig{Level: "info"},
		Database: config.DatabaseConfig{URI: "sqlite://file::memory:"},
		Kafka: config.KafkaConfig{
			Topics: config.TopicConfig{Events: "events.events", Bookings: "events.bookings"},
		},
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		down    bool
		to      uint
		version string
	}{
		{name: "applies every migration", version: "Schema version 2 (dirty=false)"},
		{name: "migrates to a version", to: 1, version: "Schema version 1 (dirty=false)"},
		{name: "rolls back on an empty schema", down: true, version: "Schema version 0 (dirty=false)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := run(context.Background(), newTestConfig(), logger.New(&buf, logger.DEBUG), tt.down, tt.to)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.version)
			assert.NotContains(t, buf.String(), "Topics on cluster")
		})
	}
}

func TestRun_KafkaWithoutBrokers(t *testing.T) {
	cfg := newTestConfig()
	cfg.Kafka.Enabled = true

	var buf bytes.Buffer
	err := run(context.Background(), cfg, logger.New(&buf, logger.DEBUG), false, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka topics: kafka: no brokers configured")
	assert.Contains(t, buf.String(), "Schema version 2")
}

func TestRun_DownSkipsKafka(t *testing.T) {
	cfg := newTestConfig()
	cfg.Kafka.Enabled = true

	require.NoError(t, run(context.Background(), cfg, logger.Nop(), true, 0))
}

func TestRun_MissingURI(t *testing.T) {
	cfg := newTestConfig()
	cfg.Database.URI = ""

	err := run(context.Background(), cfg, logger.Nop(), false, 0)
	var cfgErr *config.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "DATABASE_URI", cfgErr.Key)

	var connErr *database.ConnectionError
	assert.False(t, errors.As(err, &connErr))
}
