package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// CanonicalDateLayout is the stored form of an event date: a UTC instant with
// millisecond precision.
const CanonicalDateLayout = "2006-01-02T15:04:05.000Z"

var clockPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?:\s*(AM|PM))?$`)

// NormalizeDate parses raw as a calendar date or date-time. Inputs without a
// zone are read as UTC. It reports false when raw cannot be parsed.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(CanonicalDateLayout), true
}

// NormalizeTime accepts H:MM or HH:MM with an optional AM/PM marker and
// returns the 24-hour HH:MM form.
func NormalizeTime(raw string) (string, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])

	if meridiem := strings.ToUpper(m[3]); meridiem != "" {
		if hours == 12 {
			hours = 0
		}
		if meridiem == "PM" {
			hours += 12
		}
	}

	if hours > 23 || minutes > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%s", hours, m[2]), true
}

