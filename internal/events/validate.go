package events

import (
	"strings"

	"ms-events/internal/models"
	"ms-events/internal/utils"
	"ms-events/internal/validation"
)

// ValidateAndNormalize checks rec and returns a normalized copy ready to be
// stored. previous is the stored version of the record, or nil for a new
// one. Steps run in a fixed order and the first failure is returned; rec
// itself is never modified.
func ValidateAndNormalize(rec models.Event, previous *models.Event) (*models.Event, error) {
	out := rec
	out.Agenda = append([]string(nil), rec.Agenda...)
	out.Tags = append([]string(nil), rec.Tags...)

	required := []struct {
		name  string
		value *string
	}{
		{"title", &out.Title},
		{"description", &out.Description},
		{"overview", &out.Overview},
		{"image", &out.Image},
		{"venue", &out.Venue},
		{"location", &out.Location},
		{"date", &out.Date},
		{"time", &out.Time},
		{"mode", &out.Mode},
		{"audience", &out.Audience},
		{"organizer", &out.Organizer},
	}
	for _, f := range required {
		trimmed := strings.TrimSpace(*f.value)
		if trimmed == "" {
			return nil, validation.MissingField(f.name)
		}
		*f.value = trimmed
	}

	if previous == nil || out.Title != previous.Title {
		out.Slug = utils.Slugify(out.Title)
	} else {
		out.Slug = previous.Slug
	}
	// A title made only of dropped characters leaves nothing to address.
	if out.Slug == "" {
		return nil, validation.MissingField("slug")
	}

	date, ok := utils.NormalizeDate(out.Date)
	if !ok {
		return nil, validation.InvalidDate("date")
	}
	out.Date = date

	clock, ok := utils.NormalizeTime(out.Time)
	if !ok {
		return nil, validation.InvalidTime("time")
	}
	out.Time = clock

	if !validList(out.Agenda) {
		return nil, validation.InvalidListField("agenda")
	}
	if !validList(out.Tags) {
		return nil, validation.InvalidListField("tags")
	}

	return &out, nil
}

// validList reports whether items is non-empty and has no blank element.
// Elements are kept as given.
func validList(items []string) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return false
		}
	}
	return true
}
