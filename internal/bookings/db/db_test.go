package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ms-events/internal/bookings"
	bookingsdb "ms-events/internal/bookings/db"
	"ms-events/internal/database"
	"ms-events/internal/database/migrations"
	"ms-events/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *bookingsdb.DB {
	t.Helper()
	ctx := context.Background()

	bunDB, err := database.Dial(ctx, "sqlite://file::memory:", "", database.DefaultOptions)
	require.NoError(t, err)
	t.Cleanup(func() { bunDB.Close() })

	runner := migrations.NewRunner(bunDB, nil)
	require.NoError(t, runner.RunMigrations(ctx))
	require.NoError(t, runner.Close())

	return &bookingsdb.DB{Conn: database.Static{DB: bunDB}}
}

func newBooking(eventID, email string, at time.Time) *models.Booking {
	return &models.Booking{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Email:     email,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestDB_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	b := newBooking(uuid.NewString(), "user@example.com", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.EventID, got.EventID)
	assert.Equal(t, "user@example.com", got.Email)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, bookings.ErrNotFound))
}

func TestDB_Lists(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	eventA, eventB := uuid.NewString(), uuid.NewString()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newBooking(eventA, "ada@example.com", base)))
	require.NoError(t, repo.Create(ctx, newBooking(eventA, "grace@example.com", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newBooking(eventB, "ada@example.com", base.Add(2*time.Minute))))

	byEvent, err := repo.ListByEvent(ctx, eventA)
	require.NoError(t, err)
	require.Len(t, byEvent, 2)
	assert.Equal(t, "ada@example.com", byEvent[0].Email)
	assert.Equal(t, "grace@example.com", byEvent[1].Email)

	byEmail, err := repo.ListByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, byEmail, 2)
	assert.Equal(t, eventA, byEmail[0].EventID)
	assert.Equal(t, eventB, byEmail[1].EventID)

	none, err := repo.ListByEvent(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDB_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	b := newBooking(uuid.NewString(), "user@example.com", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, b.ID), bookings.ErrNotFound))
}
