package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-events/internal/bookings"
	"ms-events/internal/database"
	"ms-events/internal/models"
)

type DB struct {
	Conn database.ConnectionGetter
}

func (d *DB) Create(ctx context.Context, b *models.Booking) error {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return err
	}
	_, err = db.NewInsert().Model(b).Exec(ctx)
	return err
}

func (d *DB) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	var b models.Booking
	err = db.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bookings.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select booking %s: %w", id, err)
	}
	return &b, nil
}

func (d *DB) ListByEvent(ctx context.Context, eventID string) ([]models.Booking, error) {
	return d.listWhere(ctx, "event_id = ?", eventID)
}

func (d *DB) ListByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return d.listWhere(ctx, "email = ?", email)
}

func (d *DB) listWhere(ctx context.Context, query string, arg string) ([]models.Booking, error) {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Booking{}
	err = db.NewSelect().
		Model(&out).
		Where(query, arg).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (d *DB) Delete(ctx context.Context, id string) error {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return err
	}
	res, err := db.NewDelete().
		Model((*models.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return bookings.ErrNotFound
	}
	return nil
}
