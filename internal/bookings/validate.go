package bookings

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"ms-events/internal/models"
	"ms-events/internal/utils"
	"ms-events/internal/validation"
)

// ExistsFunc reports whether an event with the given ID is stored.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$",
)

// ValidateAndNormalize checks rec and returns a normalized copy. The event
// lookup runs last, after both local checks pass. A lookup failure is
// returned wrapped and is not a validation error.
func ValidateAndNormalize(ctx context.Context, rec models.Booking, eventExists ExistsFunc) (*models.Booking, error) {
	out := rec

	eventID, ok := utils.CanonicalID(strings.TrimSpace(rec.EventID))
	if !ok {
		return nil, validation.InvalidReferenceFormat("eventId")
	}
	out.EventID = eventID

	email := strings.ToLower(strings.TrimSpace(rec.Email))
	if !emailPattern.MatchString(email) {
		return nil, validation.InvalidEmail("email")
	}
	out.Email = email

	exists, err := eventExists(ctx, out.EventID)
	if err != nil {
		return nil, fmt.Errorf("check event %s: %w", out.EventID, err)
	}
	if !exists {
		return nil, validation.DanglingReference("eventId")
	}

	return &out, nil
}
