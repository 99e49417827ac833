package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking references an Event by ID but does not own it; deleting the event
// leaves its bookings in place.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID        string    `bun:"id,pk" json:"id"`
	EventID   string    `bun:"event_id,notnull" json:"eventId"`
	Email     string    `bun:"email,notnull" json:"email"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
