package bookings

import "errors"

var ErrNotFound = errors.New("booking not found")
