package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          string    `bun:"id,pk" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Description string    `bun:"description,notnull" json:"description"`
	Overview    string    `bun:"overview,notnull" json:"overview"`
	Image       string    `bun:"image,notnull" json:"image"`
	Venue       string    `bun:"venue,notnull" json:"venue"`
	Location    string    `bun:"location,notnull" json:"location"`
	Date        string    `bun:"date,notnull" json:"date"`
	Time        string    `bun:"time,notnull" json:"time"`
	Mode        string    `bun:"mode,notnull" json:"mode"`
	Audience    string    `bun:"audience,notnull" json:"audience"`
	Agenda      []string  `bun:"agenda,notnull" json:"agenda"`
	Organizer   string    `bun:"organizer,notnull" json:"organizer"`
	Tags        []string  `bun:"tags,notnull" json:"tags"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
