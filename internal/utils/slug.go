package utils

import (
	"strings"
	"unicode"
)

// Slugify lowercases and trims title, drops everything outside
// [a-z0-9], whitespace and '-', turns whitespace runs into a single '-' and
// collapses repeated hyphens.
func Slugify(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
			continue
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
		default:
			// Dropped characters do not end a whitespace run.
			continue
		}
		if inSpace {
			b.WriteByte('-')
			inSpace = false
		}
		b.WriteRune(r)
	}
	if inSpace {
		b.WriteByte('-')
	}

	return collapseHyphens(b.String())
}

func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := rune(0)
	for _, r := range s {
		if r == '-' && prev == '-' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
