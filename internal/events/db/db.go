package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ms-events/internal/database"
	"ms-events/internal/events"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB is the bun-backed events repository. The handle is fetched from Conn on
// every call so the first query also triggers the connect.
type DB struct {
	Conn database.ConnectionGetter
}

func (d *DB) Create(ctx context.Context, ev *models.Event) error {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return err
	}
	_, err = db.NewInsert().Model(ev).Exec(ctx)
	return mapWriteError(err)
}

func (d *DB) Update(ctx context.Context, ev *models.Event) error {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return err
	}
	res, err := db.NewUpdate().
		Model(ev).
		Column("title", "slug", "description", "overview", "image", "venue", "location",
			"date", "time", "mode", "audience", "agenda", "organizer", "tags", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res)
}

func (d *DB) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return d.getBy(ctx, "id", id)
}

func (d *DB) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return d.getBy(ctx, "slug", slug)
}

func (d *DB) getBy(ctx context.Context, column, value string) (*models.Event, error) {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	var ev models.Event
	err = db.NewSelect().
		Model(&ev).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select event by %s: %w", column, err)
	}
	return &ev, nil
}

// Exists checks if an event with the given ID exists in the database
func (d *DB) Exists(ctx context.Context, id string) (bool, error) {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return false, err
	}
	exists, err := db.NewSelect().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check event %s: %w", id, err)
	}
	return exists, nil
}

// List returns every event, soonest first. Stored dates share one fixed
// layout, so ordering the text column is chronological.
func (d *DB) List(ctx context.Context) ([]models.Event, error) {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Event
	err = db.NewSelect().
		Model(&out).
		Order("date ASC", "time ASC", "slug ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (d *DB) Delete(ctx context.Context, id string) error {
	db, err := d.Conn.GetConnection(ctx)
	if err != nil {
		return err
	}
	res, err := db.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isSlugViolation(err) {
		return events.ErrSlugTaken
	}
	return err
}

// isSlugViolation recognizes a unique violation on the slug index from
// either postgres (SQLSTATE 23505) or sqlite.
func isSlugViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505" && strings.Contains(pgErr.Field('n'), "slug")
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "slug")
}
