package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"ms-events/internal/app"
	"ms-events/internal/config"
	"ms-events/internal/models"
	"ms-events/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := &config.Config{
		Log:      config.LogConfig{Level: "info"},
		Database: config.DatabaseConfig{URI: "sqlite://file::memory:"},
		Redis:    config.RedisConfig{CacheTTL: time.Minute},
		Kafka: config.KafkaConfig{
			Topics: config.TopicConfig{Events: "events.events", Bookings: "events.bookings"},
		},
		Migrations: config.MigrationsConfig{Auto: true},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	require.NoError(t, a.Start(context.Background()))
	return a
}

const eventJSON = `{
  "title": "Rust and Go Night",
  "description": "Lightning talks",
  "overview": "Evening meetup",
  "image": "/images/night.png",
  "venue": "Hub",
  "location": "Kandy",
  "date": "2026-11-02",
  "time": "6:30 PM",
  "mode": "offline",
  "audience": "Everyone",
  "agenda": ["Talks", "Networking"],
  "organizer": "Kandy Devs",
  "tags": ["go", "rust"]
}`

func TestRun_EventAndBookingFlow(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	var out bytes.Buffer
	require.NoError(t, run(ctx, a, []string{"event-save", "-file", "-"}, strings.NewReader(eventJSON), &out))

	var saved models.Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &saved))
	assert.Equal(t, "rust-and-go-night", saved.Slug)
	assert.Equal(t, "18:30", saved.Time)

	out.Reset()
	require.NoError(t, run(ctx, a, []string{"event-get", "-slug", "rust-and-go-night"}, nil, &out))
	assert.Contains(t, out.String(), saved.ID)

	out.Reset()
	require.NoError(t, run(ctx, a, []string{"booking-create", "-event", saved.ID, "-email", "Dev@Kandy.lk"}, nil, &out))
	var booking models.Booking
	require.NoError(t, json.Unmarshal(out.Bytes(), &booking))
	assert.Equal(t, "dev@kandy.lk", booking.Email)

	out.Reset()
	require.NoError(t, run(ctx, a, []string{"booking-list", "-email", "dev@kandy.lk"}, nil, &out))
	var list []models.Booking
	require.NoError(t, json.Unmarshal(out.Bytes(), &list))
	require.Len(t, list, 1)

	out.Reset()
	require.NoError(t, run(ctx, a, []string{"booking-cancel", "-id", booking.ID}, nil, &out))
	assert.Empty(t, out.String())

	require.NoError(t, run(ctx, a, []string{"event-delete", "-id", saved.ID}, nil, &out))

	out.Reset()
	require.NoError(t, run(ctx, a, []string{"event-list"}, nil, &out))
	var remaining []models.Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &remaining))
	assert.Empty(t, remaining)
}

func TestRun_ValidationError(t *testing.T) {
	a := newTestApp(t)

	err := run(context.Background(), a, []string{"booking-create", "-event", "nope", "-email", "a@b.c"}, nil, &bytes.Buffer{})
	assert.True(t, errors.Is(err, validation.ErrInvalidReferenceFormat))
}

func TestRun_Usage(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	for _, args := range [][]string{
		{"unknown"},
		{"event-get"},
		{"event-delete"},
		{"event-save"},
		{"booking-list"},
		{"booking-cancel"},
		{"event-list", "-bogus"},
	} {
		err := run(ctx, a, args, nil, &bytes.Buffer{})
		assert.True(t, errors.Is(err, errUsage), "args %v", args)
	}
}
